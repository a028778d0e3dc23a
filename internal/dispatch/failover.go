package dispatch

import (
	"context"
	"errors"

	"github.com/wolfman30/ai-intake/pkg/logging"
)

// FailoverDispatcher attempts a primary dispatch, then falls back to a
// secondary provider on error. The secondary attempt shares the caller's
// context, so the overall bound still holds.
type FailoverDispatcher struct {
	primary       Dispatcher
	secondary     Dispatcher
	primaryName   string
	secondaryName string
	logger        *logging.Logger
}

// NewFailoverDispatcher builds a failover dispatcher with named providers.
func NewFailoverDispatcher(primary Dispatcher, primaryName string, secondary Dispatcher, secondaryName string, logger *logging.Logger) *FailoverDispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &FailoverDispatcher{
		primary:       primary,
		secondary:     secondary,
		primaryName:   primaryName,
		secondaryName: secondaryName,
		logger:        logger,
	}
}

var _ Dispatcher = (*FailoverDispatcher)(nil)

// Dispatch tries the primary provider first, then falls back to the secondary on failure.
func (f *FailoverDispatcher) Dispatch(ctx context.Context, to string) (*CallSession, error) {
	if f == nil || f.primary == nil {
		return nil, errors.New("dispatch: failover primary not configured")
	}
	session, err := f.primary.Dispatch(ctx, to)
	if err == nil {
		return session, nil
	}
	if f.secondary == nil {
		return nil, err
	}
	f.logger.Warn("primary call dispatch failed; attempting fallback",
		"provider", f.primaryName,
		"fallback", f.secondaryName,
		"error", err,
		"to", maskPhone(to),
	)
	session, fallbackErr := f.secondary.Dispatch(ctx, to)
	if fallbackErr != nil {
		f.logger.Error("fallback call dispatch failed",
			"provider", f.secondaryName,
			"error", fallbackErr,
			"to", maskPhone(to),
		)
		return nil, fallbackErr
	}
	return session, nil
}
