package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/ai-intake/internal/call"
	"github.com/wolfman30/ai-intake/internal/dispatch"
	"github.com/wolfman30/ai-intake/internal/observability/metrics"
	"github.com/wolfman30/ai-intake/internal/web"
	"github.com/wolfman30/ai-intake/pkg/logging"
)

type okDispatcher struct{}

func (okDispatcher) Dispatch(_ context.Context, _ string) (*dispatch.CallSession, error) {
	return &dispatch.CallSession{Provider: "telnyx", ID: "cc-1"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := logging.New("error")
	webHandler, err := web.NewHandler(logger)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	callHandler := call.NewHandler(okDispatcher{}, time.Second, metrics.NewCallMetrics(reg), logger)

	return New(&Config{
		Logger:         logger,
		CallHandler:    callHandler,
		WebHandler:     webHandler,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
}

func TestRouterHealth(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouterServesForm(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "call-form")
}

func TestRouterCallEndToEnd(t *testing.T) {
	r := newTestRouter(t)

	form := url.Values{}
	form.Set("phone_number", "+14155552671")
	req := httptest.NewRequest(http.MethodPost, "/call", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var outcome call.Outcome
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&outcome))
	assert.Equal(t, call.StatusSuccess, outcome.Status)
}

func TestRouterMetricsExposed(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterCallMethodNotAllowed(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/call", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
