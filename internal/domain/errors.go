package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindRateLimited    ErrKind = "rate_limited"   // 429
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: safe summary for clients (avoid leaking sensitive details)
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging/diagnostics
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", "missing required field"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

// ErrUserExists is intentionally a 400 and intentionally says the account
// exists; registration is the one place the product leaks that.
func ErrUserExists() *Error {
	return New(KindValidation, "user_exists", "user already exists")
}

// ErrAccountNotFound is the confirm flow's unknown-subject failure. The HTTP
// contract pins it to 400, not 404.
func ErrAccountNotFound() *Error {
	return New(KindValidation, "account_not_found", "account not found")
}

// ErrAlreadyConfirmed rejects replay of a structurally valid confirmation
// token once the account is confirmed.
func ErrAlreadyConfirmed() *Error {
	return New(KindValidation, "already_confirmed", "account already confirmed")
}

// ----------------------
// Auth errors (401)
// ----------------------

// ErrInvalidCredentials is used for both unknown-email and wrong-password
// login failures so callers cannot tell the two apart.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "incorrect email or password")
}

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "no token provided")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "invalid token")
}

func ErrTokenMissingSubject() *Error {
	return New(KindAuth, "token_invalid", "token is missing subject")
}

func ErrTokenWrongType(expected string) *Error {
	return WithMeta(
		New(KindAuth, "token_invalid", "incorrect token type, expected "+expected),
		map[string]string{"expected": expected},
	)
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "token has expired")
}

// ----------------------
// Forbidden (403)
// ----------------------

// ErrAccountNotConfirmed is a deliberate, distinct status: the credentials
// were right, the account just has not confirmed its email yet.
func ErrAccountNotConfirmed() *Error {
	return New(KindForbidden, "account_not_confirmed", "email address not confirmed")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "user not found")
}

func ErrPostNotFound() *Error {
	return New(KindNotFound, "post_not_found", "post not found")
}

// ----------------------
// Rate limited (429)
// ----------------------

func ErrRateLimited(route string) *Error {
	return WithMeta(
		New(KindRateLimited, "rate_limited", "too many requests"),
		map[string]string{"route": route},
	)
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrUploadFailed(cause error) *Error {
	return Wrap(KindInternal, "upload_failed", "there was an error uploading the file", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
