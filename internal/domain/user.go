package domain

import "time"

// User is the account record. Confirmed starts false and flips to true
// exactly once via the confirmation flow; it never transitions back.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Confirmed    bool
	CreatedAt    time.Time
}
