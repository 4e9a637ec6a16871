package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/9778060/socialapi/internal/application/auth"
	"github.com/9778060/socialapi/internal/logger"
	"github.com/9778060/socialapi/internal/transport/http/dto"
	"github.com/9778060/socialapi/internal/transport/http/middleware"
	"github.com/9778060/socialapi/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.RegistrationsTotal.WithLabelValues(registerStatus(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.RegistrationsTotal.WithLabelValues("success").Inc()

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", u.ID).
		Str("email", u.Email).
		Msg("user_registered")

	response.Created(w, dto.RegisterResponse{
		Detail: "User created. Please confirm your email",
		ID:     u.ID,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, toks, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues(loginStatus(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", u.ID).
		Msg("user_logged_in")

	response.OK(w, dto.TokenResponse{
		AccessToken: toks.AccessToken,
		TokenType:   toks.TokenType,
		ExpiresIn:   toks.ExpiresIn,
	})
}

func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.svc.Confirm(r.Context(), token); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.DetailResponse{Detail: "User confirmed"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domainTokenInvalid())
		return
	}

	response.OK(w, dto.UserView{ID: u.ID, Email: u.Email, Confirmed: u.Confirmed})
}

func registerStatus(err error) string {
	if isCode(err, "user_exists") {
		return "user_exists"
	}
	return "error"
}

func loginStatus(err error) string {
	for _, code := range []string{"invalid_credentials", "account_not_confirmed"} {
		if isCode(err, code) {
			return code
		}
	}
	return "error"
}
