package auth

import (
	"time"

	"github.com/rs/zerolog"
)

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	codec  TokenCodec
	pub    EventPublisher
	lg     zerolog.Logger

	accessTTL  time.Duration
	confirmTTL time.Duration

	// Base URL embedded in confirmation emails, e.g.
	// https://frontend/confirm?token=
	confirmBaseURL string

	// dispatchTimeout bounds the background publish of a confirmation email.
	dispatchTimeout time.Duration
}

type Config struct {
	AccessTTL       time.Duration
	ConfirmTTL      time.Duration
	ConfirmBaseURL  string
	DispatchTimeout time.Duration
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	codec TokenCodec,
	pub EventPublisher,
	cfg Config,
	lg zerolog.Logger,
) *Service {
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 5 * time.Minute
	}
	confirmTTL := cfg.ConfirmTTL
	if confirmTTL <= 0 {
		confirmTTL = 5 * time.Minute
	}
	dispatchTimeout := cfg.DispatchTimeout
	if dispatchTimeout <= 0 {
		dispatchTimeout = 5 * time.Second
	}
	return &Service{
		users:  users,
		hasher: hasher,
		codec:  codec,
		pub:    pub,
		lg:     lg.With().Str("component", "auth_service").Logger(),

		accessTTL:       accessTTL,
		confirmTTL:      confirmTTL,
		confirmBaseURL:  cfg.ConfirmBaseURL,
		dispatchTimeout: dispatchTimeout,
	}
}

// AuthTokens is the token output for handlers/DTO mapping.
type AuthTokens struct {
	AccessToken string
	TokenType   string // "bearer"
	ExpiresIn   int64  // seconds
}
