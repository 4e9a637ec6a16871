package auth

import (
	"context"
	"strings"

	"github.com/9778060/socialapi/internal/domain"
)

// Login authenticates a user and issues an access token.
// IMPORTANT: must not leak whether the email exists; unknown email and wrong
// password fail with the same error value.
func (s *Service) Login(ctx context.Context, email, password string) (domain.User, AuthTokens, error) {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return domain.User{}, AuthTokens{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Hide not-found behind invalid credentials.
		return domain.User{}, AuthTokens{}, domain.ErrInvalidCredentials()
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return domain.User{}, AuthTokens{}, domain.ErrInvalidCredentials()
	}

	// Checked only after the password verified, so a guesser with wrong
	// credentials never learns the confirmation state either.
	if !u.Confirmed {
		return domain.User{}, AuthTokens{}, domain.ErrAccountNotConfirmed()
	}

	access, err := s.codec.Issue(u.Email, PurposeAccess, s.accessTTL)
	if err != nil {
		return domain.User{}, AuthTokens{}, err
	}

	return u, AuthTokens{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}
