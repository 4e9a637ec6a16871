package auth

import (
	"context"
	"strings"

	"github.com/9778060/socialapi/internal/domain"
)

// Confirm consumes a confirmation token and marks the account confirmed.
// A structurally valid token replayed after first success is rejected by the
// account state, not by token revocation.
func (s *Service) Confirm(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrTokenMissing()
	}

	email, err := s.codec.Subject(token, PurposeConfirmation)
	if err != nil {
		return err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return domain.ErrAccountNotFound()
		}
		return err
	}

	if u.Confirmed {
		return domain.ErrAlreadyConfirmed()
	}

	return s.users.SetConfirmed(ctx, u.Email)
}
