package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Confirm(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type PostHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	CreateComment(w http.ResponseWriter, r *http.Request)
	ListComments(w http.ResponseWriter, r *http.Request)
	Like(w http.ResponseWriter, r *http.Request)
}

type FileHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Auth   AuthHandler
	Post   PostHandler
	File   FileHandler

	AuthMW func(http.Handler) http.Handler

	// Base middleware applied to every route, outermost first.
	Base []func(http.Handler) http.Handler

	// Rate limits for the credential endpoints; nil disables.
	RegisterLimitMW func(http.Handler) http.Handler
	LoginLimitMW    func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Post == nil {
		return nil, fmt.Errorf("nil Post handler")
	}
	if deps.File == nil {
		return nil, fmt.Errorf("nil File handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}

	r := chi.NewRouter()
	for _, mw := range deps.Base {
		r.Use(mw)
	}

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	// --- Identity ---
	r.With(limit(deps.RegisterLimitMW)).Post("/register", deps.Auth.Register)
	r.With(limit(deps.LoginLimitMW)).Post("/login", deps.Auth.Login)
	r.Get("/confirm/{token}", deps.Auth.Confirm)
	r.With(deps.AuthMW).Get("/me", deps.Auth.Me)

	// --- Posts ---
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", deps.Post.List)
		r.With(deps.AuthMW).Post("/", deps.Post.Create)
		r.Get("/{id}", deps.Post.Get)
		r.Get("/{id}/comments", deps.Post.ListComments)
		r.With(deps.AuthMW).Post("/{id}/comments", deps.Post.CreateComment)
		r.With(deps.AuthMW).Post("/{id}/like", deps.Post.Like)
	})

	// --- Files ---
	r.With(deps.AuthMW).Post("/files/upload", deps.File.Upload)

	return r, nil
}

// limit returns the middleware or a pass-through when rate limiting is off.
func limit(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw != nil {
		return mw
	}
	return func(next http.Handler) http.Handler { return next }
}
