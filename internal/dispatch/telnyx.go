package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/ai-intake/pkg/logging"
)

const defaultTelnyxBaseURL = "https://api.telnyx.com/v2"

var telnyxTracer = otel.Tracer("ai-intake.internal.dispatch.telnyx")

// TelnyxDispatcher initiates outbound calls via the Telnyx Voice AI API.
type TelnyxDispatcher struct {
	apiKey      string
	texmlAppID  string
	assistantID string
	from        string
	baseURL     string
	httpClient  *http.Client
	logger      *logging.Logger
}

// TelnyxConfig configures the outbound voice client.
type TelnyxConfig struct {
	// APIKey is the Telnyx API key (Bearer token).
	APIKey string
	// TexmlAppID is the Telnyx TeXML Application ID for the voice channel.
	TexmlAppID string
	// AIAssistantID selects the assistant that runs the intake script.
	AIAssistantID string
	// From is the caller ID number (E.164), held server-side.
	From string
	// BaseURL overrides the Telnyx API base URL (for testing).
	BaseURL string
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// NewTelnyxDispatcher creates a dispatcher for Telnyx AI voice calls.
func NewTelnyxDispatcher(cfg TelnyxConfig) (*TelnyxDispatcher, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("telnyx dispatch: API key required: %w", ErrNotConfigured)
	}
	if strings.TrimSpace(cfg.TexmlAppID) == "" {
		return nil, fmt.Errorf("telnyx dispatch: TeXML app ID required: %w", ErrNotConfigured)
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, fmt.Errorf("telnyx dispatch: from number required: %w", ErrNotConfigured)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultTelnyxBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &TelnyxDispatcher{
		apiKey:      cfg.APIKey,
		texmlAppID:  cfg.TexmlAppID,
		assistantID: cfg.AIAssistantID,
		from:        cfg.From,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

var _ Dispatcher = (*TelnyxDispatcher)(nil)

// telnyxCallRequest is the TeXML AI call payload.
type telnyxCallRequest struct {
	From             string `json:"From"`
	To               string `json:"To"`
	AIAssistantID    string `json:"AIAssistantId,omitempty"`
	MachineDetection string `json:"MachineDetection,omitempty"`
	AsyncAmd         bool   `json:"AsyncAmd,omitempty"`
	DetectionMode    string `json:"DetectionMode,omitempty"`
}

// telnyxCallResponse is the Telnyx API response for call initiation.
type telnyxCallResponse struct {
	CallControlID string `json:"call_control_id"`
	CallLegID     string `json:"call_leg_id"`
	CallSessionID string `json:"call_session_id"`
	IsAlive       bool   `json:"is_alive"`
}

// telnyxAPIResponse wraps the Telnyx response envelope.
type telnyxAPIResponse struct {
	Data telnyxCallResponse `json:"data"`
}

// Dispatch starts an outbound AI voice call to the given number.
func (d *TelnyxDispatcher) Dispatch(ctx context.Context, to string) (*CallSession, error) {
	if to == "" {
		return nil, fmt.Errorf("telnyx dispatch: to number required")
	}

	ctx, span := telnyxTracer.Start(ctx, "dispatch.telnyx.call")
	defer span.End()
	span.SetAttributes(attribute.String("intake.to", maskPhone(to)))

	payload := telnyxCallRequest{
		From:             d.from,
		To:               to,
		AIAssistantID:    d.assistantID,
		MachineDetection: "Enable",
		AsyncAmd:         true,
		DetectionMode:    "Premium",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("telnyx dispatch: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/texml/ai_calls/%s", d.baseURL, d.texmlAppID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("telnyx dispatch: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+d.apiKey)

	d.logger.Info("telnyx dispatch: initiating outbound call",
		"from", maskPhone(d.from),
		"to", maskPhone(to),
		"assistant_id", d.assistantID,
	)

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("telnyx dispatch: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("telnyx dispatch: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.logger.Error("telnyx dispatch: API error",
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return nil, fmt.Errorf("telnyx dispatch: API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp telnyxAPIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("telnyx dispatch: decode response: %w", err)
	}

	d.logger.Info("telnyx dispatch: outbound call initiated",
		"call_control_id", apiResp.Data.CallControlID,
		"to", maskPhone(to),
	)

	return &CallSession{Provider: ProviderTelnyx, ID: apiResp.Data.CallControlID}, nil
}
