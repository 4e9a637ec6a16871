package auth

import (
	"context"
	"strings"

	"github.com/9778060/socialapi/internal/domain"
)

// CurrentUser resolves a bearer access token into the account it asserts.
// An account that vanished after issuance reads as an invalid token; the
// resolver never distinguishes "unknown user" from "bad token".
func (s *Service) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, domain.ErrTokenMissing()
	}

	email, err := s.codec.Subject(token, PurposeAccess)
	if err != nil {
		return domain.User{}, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return domain.User{}, domain.ErrTokenInvalid()
		}
		return domain.User{}, err
	}

	return u, nil
}
