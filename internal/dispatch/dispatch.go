// Package dispatch places outbound AI intake calls through an external
// telephony provider. One Dispatch call maps to exactly one provider API
// request; callers bound the attempt with the context deadline.
package dispatch

import (
	"context"
	"errors"
	"strings"
)

// CallSession identifies an accepted call on the provider side. The service
// does not track call progress; the session ID is logged and discarded.
type CallSession struct {
	Provider string
	ID       string
}

// Dispatcher asks a provider to place an outbound call to an E.164 number.
type Dispatcher interface {
	Dispatch(ctx context.Context, to string) (*CallSession, error)
}

// ErrNotConfigured is returned when a dispatcher is built without the
// credentials its provider requires.
var ErrNotConfigured = errors.New("dispatch: provider not configured")

// maskPhone returns the last 4 digits of a phone number for logging.
func maskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) <= 4 {
		return "****"
	}
	return "***" + phone[len(phone)-4:]
}
