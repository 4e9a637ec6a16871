package auth

import (
	"context"
	"strings"

	"github.com/9778060/socialapi/internal/domain"
)

// Register creates an unconfirmed account and schedules the confirmation
// email. The dispatch is fire-and-forget: it runs after this call returns and
// its failure never surfaces to the caller.
func (s *Service) Register(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if password == "" {
		return domain.User{}, domain.ErrMissingField("password")
	}

	// Friendly duplicate check. The unique constraint in the store is the
	// real guard; under a race Create still loses with ErrUserExists.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ErrUserExists()
	} else if !domain.Is(err, "user_not_found") {
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, err
	}

	created, err := s.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: hash,
		Confirmed:    false,
	})
	if err != nil {
		return domain.User{}, err
	}

	go s.dispatchConfirmation(created.Email)

	return created, nil
}

// dispatchConfirmation runs outside the request lifecycle with its own
// deadline. Errors are logged and dropped: confirmation delivery is
// best-effort, at most once.
func (s *Service) dispatchConfirmation(email string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
	defer cancel()

	token, err := s.codec.Issue(email, PurposeConfirmation, s.confirmTTL)
	if err != nil {
		s.lg.Error().Err(err).Str("email", email).Msg("confirmation token issue failed")
		return
	}

	evt := ConfirmationEmailEvent{
		Email: email,
		URL:   s.confirmBaseURL + token,
	}
	if err := s.pub.PublishConfirmationEmail(ctx, evt); err != nil {
		s.lg.Error().Err(err).Str("email", email).Msg("confirmation email dispatch failed")
		return
	}

	s.lg.Info().Str("email", email).Msg("confirmation email queued")
}
