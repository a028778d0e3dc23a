package dispatch

import (
	"fmt"
	"strings"

	"github.com/wolfman30/ai-intake/pkg/logging"
)

const (
	// ProviderAuto tries Telnyx first, then Twilio.
	ProviderAuto = "auto"
	// ProviderTelnyx forces the Telnyx dispatcher when credentials exist.
	ProviderTelnyx = "telnyx"
	// ProviderTwilio forces the Twilio dispatcher when credentials exist.
	ProviderTwilio = "twilio"
)

// ProviderSelectionConfig captures the credentials required to build call dispatchers.
type ProviderSelectionConfig struct {
	Preference          string
	FromNumber          string
	TelnyxAPIKey        string
	TelnyxTexmlAppID    string
	TelnyxAIAssistantID string
	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioScriptURL     string
}

// BuildDispatcher instantiates a Dispatcher based on the preferred provider.
// It returns the dispatcher, the provider that was selected, and a reason when
// no provider could be initialized.
func BuildDispatcher(cfg ProviderSelectionConfig, logger *logging.Logger) (Dispatcher, string, string) {
	if logger == nil {
		logger = logging.Default()
	}
	preference := strings.ToLower(strings.TrimSpace(cfg.Preference))
	if preference == "" {
		preference = ProviderAuto
	}

	missing := map[string]string{}
	var telnyxDispatcher Dispatcher
	var twilioDispatcher Dispatcher

	if d, err := NewTelnyxDispatcher(TelnyxConfig{
		APIKey:        cfg.TelnyxAPIKey,
		TexmlAppID:    cfg.TelnyxTexmlAppID,
		AIAssistantID: cfg.TelnyxAIAssistantID,
		From:          cfg.FromNumber,
		Logger:        logger,
	}); err == nil {
		telnyxDispatcher = d
	} else {
		missing[ProviderTelnyx] = err.Error()
	}

	if d, err := NewTwilioDispatcher(TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		ScriptURL:  cfg.TwilioScriptURL,
		From:       cfg.FromNumber,
		Logger:     logger,
	}); err == nil {
		twilioDispatcher = d
	} else {
		missing[ProviderTwilio] = err.Error()
	}

	if preference != ProviderAuto {
		if preference == ProviderTelnyx && telnyxDispatcher != nil {
			return telnyxDispatcher, ProviderTelnyx, ""
		}
		if preference == ProviderTwilio && twilioDispatcher != nil {
			return twilioDispatcher, ProviderTwilio, ""
		}
		reason := missing[preference]
		if reason == "" {
			reason = fmt.Sprintf("%s dispatcher not configured", preference)
		}
		return nil, "", reason
	}

	if telnyxDispatcher != nil && twilioDispatcher != nil {
		return NewFailoverDispatcher(telnyxDispatcher, ProviderTelnyx, twilioDispatcher, ProviderTwilio, logger), ProviderTelnyx + "+" + ProviderTwilio, ""
	}
	if telnyxDispatcher != nil {
		return telnyxDispatcher, ProviderTelnyx, ""
	}
	if twilioDispatcher != nil {
		return twilioDispatcher, ProviderTwilio, ""
	}

	var reasons []string
	for _, provider := range []string{ProviderTelnyx, ProviderTwilio} {
		if msg := missing[provider]; msg != "" {
			reasons = append(reasons, fmt.Sprintf("%s: %s", provider, msg))
		}
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "no call providers configured")
	}
	return nil, "", strings.Join(reasons, "; ")
}
