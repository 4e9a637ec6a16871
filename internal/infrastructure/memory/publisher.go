package memory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/9778060/socialapi/internal/application/auth"
)

// NoopPublisher stands in for the broker in local development; it only logs
// what would have been queued.
type NoopPublisher struct {
	lg zerolog.Logger
}

func NewNoopPublisher(lg zerolog.Logger) *NoopPublisher {
	return &NoopPublisher{lg: lg.With().Str("component", "noop_publisher").Logger()}
}

func (p *NoopPublisher) PublishConfirmationEmail(ctx context.Context, evt auth.ConfirmationEmailEvent) error {
	p.lg.Info().Str("email", evt.Email).Str("url", evt.URL).Msg("confirmation email event (not queued)")
	return nil
}
