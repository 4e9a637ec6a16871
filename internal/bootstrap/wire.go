package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/9778060/socialapi/internal/application/auth"
	"github.com/9778060/socialapi/internal/application/media"
	"github.com/9778060/socialapi/internal/application/post"
	"github.com/9778060/socialapi/internal/config"
	"github.com/9778060/socialapi/internal/infrastructure/db/postgres"
	"github.com/9778060/socialapi/internal/infrastructure/memory"
	"github.com/9778060/socialapi/internal/infrastructure/messaging/rabbitmq"
	"github.com/9778060/socialapi/internal/infrastructure/redis"
	"github.com/9778060/socialapi/internal/infrastructure/security"
	"github.com/9778060/socialapi/internal/infrastructure/storage"
	"github.com/9778060/socialapi/internal/logger"
	"github.com/9778060/socialapi/internal/transport/http/handlers"
	"github.com/9778060/socialapi/internal/transport/http/middleware"
	"github.com/9778060/socialapi/internal/transport/http/response"
	"github.com/9778060/socialapi/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing.
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(dsn string) (*sql.DB, error)

	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(cfg redis.Config) RedisClient

	NewPublisher func(rabbitURL, exchange string) (auth.EventPublisher, error)

	NewStore func(cfg *config.Config) (media.ObjectStore, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db + migrations
	db, err := deps.NewDB(cfg.DBAddr)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	if deps.Migrate != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := deps.Migrate(ctx, db)
		cancel()
		if err != nil {
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	}

	// 2) repos
	userRepo := postgres.NewUserRepo(db)
	postRepo := postgres.NewPostRepo(db)

	// 3) redis (best-effort; rate limiting is disabled without it)
	var redisCli *redis.Client
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; rate limiting disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			// the limiter needs the concrete client; an injected fake
			// only disables rate limiting
			redisCli, _ = c.(*redis.Client)
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 4) publisher
	var pub auth.EventPublisher
	if cfg.RabbitURL == "" {
		logger.Logger.Warn().Msg("RABBIT_URL not set; confirmation emails will not be queued")
		pub = memory.NewNoopPublisher(logger.Logger)
	} else {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			if cfg.Env == "dev" {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
				p = memory.NewNoopPublisher(logger.Logger)
			} else {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
		}
		pub = p
	}
	if c, ok := pub.(interface{ Close() error }); ok {
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })
	}

	// 5) object store
	store, err := deps.NewStore(cfg)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 6) security
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	codec := security.NewTokenCodec(cfg.JWTSecret, "socialapi")

	// 7) services
	authSvc := auth.NewService(userRepo, hasher, codec, pub, auth.Config{
		AccessTTL:      cfg.AccessTokenTTL,
		ConfirmTTL:     cfg.ConfirmTokenTTL,
		ConfirmBaseURL: cfg.ConfirmBaseURL,
	}, logger.Logger)
	postSvc := post.NewService(postRepo, logger.Logger)
	mediaSvc := media.NewService(store, logger.Logger)

	// 8) handlers + middleware
	authH := handlers.NewAuthHandler(authSvc)
	postH := handlers.NewPostHandler(postSvc)
	fileH := handlers.NewFileHandler(mediaSvc)
	healthH := handlers.NewHealthHandler(db)

	authMW := middleware.Auth(authSvc, response.WriteError)

	// rate limit (fail-open)
	var fwLimiter *redis.FixedWindowLimiter
	if redisCli != nil {
		fwLimiter = redis.NewFixedWindowLimiter(redisCli)
	}

	rl := func(key string) func(http.Handler) http.Handler {
		if fwLimiter == nil || cfg.AuthRateLimit <= 0 {
			return nil
		}
		return middleware.RateLimitFixedWindow(
			fwLimiter,
			middleware.FixedWindowConfig{
				RouteKey: key,
				Limit:    cfg.AuthRateLimit,
				Window:   cfg.AuthRateWindow,
			},
			response.WriteError,
		)
	}

	// 9) router
	mux, err := deps.NewRouter(router.Deps{
		Health: healthH,
		Auth:   authH,
		Post:   postH,
		File:   fileH,
		AuthMW: authMW,
		Base: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.Logging,
			middleware.Metrics,
		},
		RegisterLimitMW: rl("auth.register"),
		LoginLimitMW:    rl("auth.login"),
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 10) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		Migrate:    postgres.Migrate,
		NewRedis: func(cfg redis.Config) RedisClient {
			return redis.New(cfg)
		},
		NewPublisher: func(url, exchange string) (auth.EventPublisher, error) {
			return rabbitmq.NewPublisher(url, exchange)
		},
		NewStore: newStore,
		NewRouter: func(d router.Deps) (http.Handler, error) {
			return router.New(d)
		},
	}
}

// newStore picks the S3-compatible store when configured and falls back to an
// in-memory store for local development.
func newStore(cfg *config.Config) (media.ObjectStore, error) {
	if cfg.S3Bucket == "" {
		logger.Logger.Warn().Msg("S3_BUCKET not set; uploads held in memory")
		return memory.NewObjectStore(logger.Logger), nil
	}

	s3c, err := storage.NewS3Client(cfg, logger.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s3c.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	return s3c, nil
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
