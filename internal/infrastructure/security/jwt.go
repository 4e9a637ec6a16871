package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/9778060/socialapi/internal/application/auth"
	"github.com/9778060/socialapi/internal/domain"
)

// TokenCodec issues and decodes the two token flavours the API uses: short
// lived access tokens and email confirmation tokens. Both are HS256 JWTs with
// a `type` claim; a token is never accepted outside its issued purpose.
type TokenCodec struct {
	secret []byte
	issuer string
}

func NewTokenCodec(secret string, issuer string) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		issuer: issuer,
	}
}

type purposeClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

func (c *TokenCodec) Issue(subject string, purpose auth.TokenPurpose, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := purposeClaims{
		Type: string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

// Subject verifies the token and returns its subject, rejecting tokens whose
// `type` claim does not match the expected purpose. Expiry is reported as
// token_expired; every other failure collapses into token_invalid.
func (c *TokenCodec) Subject(token string, expected auth.TokenPurpose) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &purposeClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrTokenInvalid()
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired()
		}
		return "", domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*purposeClaims)
	if !ok || !parsed.Valid {
		return "", domain.ErrTokenInvalid()
	}

	if claims.Subject == "" {
		return "", domain.ErrTokenMissingSubject()
	}
	if claims.Type != string(expected) {
		return "", domain.ErrTokenWrongType(string(expected))
	}

	return claims.Subject, nil
}
