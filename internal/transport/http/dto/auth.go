package dto

import "strings"

// -------- Requests --------

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return check(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return check(r)
}

// -------- Responses --------

type RegisterResponse struct {
	Detail string `json:"detail"`
	ID     int64  `json:"id"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type UserView struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Confirmed bool   `json:"confirmed"`
}
