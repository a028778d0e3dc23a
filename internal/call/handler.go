package call

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wolfman30/ai-intake/internal/dispatch"
	"github.com/wolfman30/ai-intake/internal/observability/metrics"
	"github.com/wolfman30/ai-intake/pkg/logging"
)

const defaultDispatchTimeout = 15 * time.Second

// Handler handles HTTP requests for call initiation
type Handler struct {
	dispatcher dispatch.Dispatcher
	timeout    time.Duration
	metrics    *metrics.CallMetrics
	logger     *logging.Logger
}

// NewHandler creates a new call handler. metrics may be nil.
func NewHandler(dispatcher dispatch.Dispatcher, timeout time.Duration, m *metrics.CallMetrics, logger *logging.Logger) *Handler {
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		dispatcher: dispatcher,
		timeout:    timeout,
		metrics:    m,
		logger:     logger,
	}
}

// InitiateCall handles POST /call requests. The response is always 200 with
// the outcome carried in the JSON status field; the intake form branches on
// the body, not the transport code.
func (h *Handler) InitiateCall(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Error("failed to parse call form", "error", err)
		h.metrics.ObserveValidationReject()
		writeOutcome(w, ErrorOutcome("invalid form submission"))
		return
	}

	number, err := ValidatePhone(r.PostFormValue("phone_number"))
	if err != nil {
		h.logger.Info("call request rejected", "error", err)
		h.metrics.ObserveValidationReject()
		writeOutcome(w, ErrorOutcome(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	session, err := h.dispatcher.Dispatch(ctx, NormalizeE164(number))
	elapsed := time.Since(start).Seconds()
	if err != nil {
		h.metrics.ObserveDispatch(providerLabel(session), StatusError)
		h.metrics.ObserveDispatchLatency(providerLabel(session), elapsed)
		h.logger.Error("call dispatch failed", "error", err)
		writeOutcome(w, ErrorOutcome(dispatchErrorMessage(err)))
		return
	}

	h.metrics.ObserveDispatch(session.Provider, StatusSuccess)
	h.metrics.ObserveDispatchLatency(session.Provider, elapsed)
	h.logger.Info("call dispatched",
		"provider", session.Provider,
		"session_id", session.ID,
	)
	writeOutcome(w, SuccessOutcome())
}

// dispatchErrorMessage converts a dispatch error into text safe to show the
// user. Timeouts get a fixed message; provider rejections keep their detail,
// which never includes credentials.
func dispatchErrorMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "the call could not be placed in time, please try again"
	}
	return err.Error()
}

func providerLabel(session *dispatch.CallSession) string {
	if session == nil {
		return "unknown"
	}
	return session.Provider
}

func writeOutcome(w http.ResponseWriter, outcome Outcome) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(outcome)
}
