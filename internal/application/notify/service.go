package notify

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"github.com/9778060/socialapi/internal/application/auth"
	"github.com/9778060/socialapi/internal/domain"
)

// Sender delivers a rendered message to one recipient.
type Sender interface {
	SendConfirmationEmail(ctx context.Context, to string, confirmURL string) error
}

// Service is the worker-side handler for queued notification events.
type Service struct {
	sender Sender
	lg     zerolog.Logger
}

func NewService(sender Sender, lg zerolog.Logger) *Service {
	return &Service{sender: sender, lg: lg}
}

// HandleConfirmationEmail decodes a queued confirmation event and sends the
// email. A malformed payload is a permanent failure; the caller should drop
// it instead of retrying.
func (s *Service) HandleConfirmationEmail(ctx context.Context, payload []byte) error {
	var evt auth.ConfirmationEmailEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return domain.ErrInvalidJSON(err)
	}
	if strings.TrimSpace(evt.Email) == "" {
		return domain.ErrMissingField("email")
	}
	if strings.TrimSpace(evt.URL) == "" {
		return domain.ErrMissingField("url")
	}

	if err := s.sender.SendConfirmationEmail(ctx, evt.Email, evt.URL); err != nil {
		s.lg.Error().Err(err).Str("to", evt.Email).Msg("confirmation email send failed")
		return err
	}

	s.lg.Info().Str("to", evt.Email).Msg("confirmation email sent")
	return nil
}
