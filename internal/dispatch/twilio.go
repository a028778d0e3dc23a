package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/ai-intake/pkg/logging"
)

const defaultTwilioBaseURL = "https://api.twilio.com"

var twilioTracer = otel.Tracer("ai-intake.internal.dispatch.twilio")

// TwilioDispatcher places outbound calls using Twilio's Calls REST API.
// The TwiML document driving the call is referenced by a server-side URL;
// clients cannot influence the script.
type TwilioDispatcher struct {
	accountSID string
	authToken  string
	scriptURL  string
	from       string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// TwilioConfig configures the Twilio call dispatcher.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	// ScriptURL is the TwiML document Twilio fetches once the call connects.
	ScriptURL string
	// From is the caller ID number (E.164), held server-side.
	From string
	// BaseURL overrides the Twilio API base URL (for testing).
	BaseURL string
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// NewTwilioDispatcher builds a dispatcher with sane defaults.
func NewTwilioDispatcher(cfg TwilioConfig) (*TwilioDispatcher, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("twilio dispatch: credentials required: %w", ErrNotConfigured)
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, fmt.Errorf("twilio dispatch: from number required: %w", ErrNotConfigured)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultTwilioBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &TwilioDispatcher{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		scriptURL:  cfg.ScriptURL,
		from:       cfg.From,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

var _ Dispatcher = (*TwilioDispatcher)(nil)

// Dispatch creates a single outbound call. Failures are terminal; the user
// resubmits manually, so there is no retry loop here.
func (d *TwilioDispatcher) Dispatch(ctx context.Context, to string) (*CallSession, error) {
	if to == "" {
		return nil, errors.New("twilio dispatch: to number required")
	}

	ctx, span := twilioTracer.Start(ctx, "dispatch.twilio.call")
	defer span.End()
	span.SetAttributes(attribute.String("intake.to", maskPhone(to)))

	payload := url.Values{}
	payload.Set("To", to)
	payload.Set("From", d.from)
	if d.scriptURL != "" {
		payload.Set("Url", d.scriptURL)
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", d.baseURL, d.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		return nil, fmt.Errorf("twilio dispatch: create request: %w", err)
	}
	req.SetBasicAuth(d.accountSID, d.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	d.logger.Info("twilio dispatch: initiating outbound call",
		"from", maskPhone(d.from),
		"to", maskPhone(to),
	)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("twilio dispatch: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return nil, fmt.Errorf("twilio dispatch: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := formatTwilioError(resp.StatusCode, body)
		d.logger.Error("twilio dispatch: API error", "status", resp.StatusCode, "detail", msg)
		return nil, fmt.Errorf("twilio dispatch: %s", msg)
	}

	var parsed struct {
		SID    string `json:"sid"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("twilio dispatch: decode response: %w", err)
	}

	d.logger.Info("twilio dispatch: outbound call initiated",
		"call_sid", parsed.SID,
		"call_status", parsed.Status,
		"to", maskPhone(to),
	)

	return &CallSession{Provider: ProviderTwilio, ID: parsed.SID}, nil
}

type twilioAPIError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func formatTwilioError(status int, body []byte) string {
	body = []byte(strings.TrimSpace(string(body)))
	if len(body) == 0 {
		return fmt.Sprintf("status %d", status)
	}
	var parsed twilioAPIError
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		if parsed.Code != 0 {
			return fmt.Sprintf("status %d code %d: %s", status, parsed.Code, parsed.Message)
		}
		return fmt.Sprintf("status %d: %s", status, parsed.Message)
	}
	// Fallback: return raw body (truncated by ReadAll limit).
	return fmt.Sprintf("status %d: %s", status, string(body))
}
