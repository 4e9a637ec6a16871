package auth

import (
	"context"
	"time"

	"github.com/9778060/socialapi/internal/domain"
)

/*
UserRepo
--------
Persistence port for accounts. Only describes WHAT the identity flows need,
not HOW it is stored. Email uniqueness is the store's constraint; Create must
surface a duplicate as domain.ErrUserExists so a registration race yields at
most one winner.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	// SetConfirmed flips confirmed to true for the given email.
	SetConfirmed(ctx context.Context, email string) error
}

/*
PasswordHasher
--------------
Abstracts bcrypt. Compare returns nil on match.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

/*
TokenCodec
----------
Issues and decodes signed, expiring, purpose-tagged tokens. The purpose tag
keeps a leaked confirmation link from doubling as an access credential.
*/
type TokenPurpose string

const (
	PurposeAccess       TokenPurpose = "access"
	PurposeConfirmation TokenPurpose = "confirmation"
)

type TokenCodec interface {
	Issue(subject string, purpose TokenPurpose, ttl time.Duration) (string, error)
	Subject(token string, expected TokenPurpose) (string, error)
}

/*
EventPublisher
--------------
Hands confirmation emails off to the broker. The worker consumes these and
sends the mail; the API never talks SMTP itself.
*/
type ConfirmationEmailEvent struct {
	Email string `json:"email"`
	URL   string `json:"url"`
}

type EventPublisher interface {
	PublishConfirmationEmail(ctx context.Context, evt ConfirmationEmailEvent) error
}
