package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is resolved once at startup and injected everywhere; nothing reads
// the environment after Load returns.
type Config struct {
	// App
	Env string // dev / test / prod

	// HTTP
	HTTPAddr         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Auth / security
	JWTSecret       string
	AccessTokenTTL  time.Duration
	ConfirmTokenTTL time.Duration
	BcryptCost      int

	// Confirmation links. Must contain `token=`; the service appends the token.
	ConfirmBaseURL string

	// Infrastructure
	DBAddr    string
	RabbitURL string // optional in dev; noop publisher when absent

	// Redis is optional; rate limiting is disabled when RedisAddr is empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitExchange string
	RabbitQueue    string

	// Rate limiting for /register and /login
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// Object storage for file uploads (S3-compatible: MinIO / B2 / R2)
	S3Endpoint     string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3UsePathStyle bool
	// Browser-facing base URL for uploaded files (CDN or the bucket endpoint).
	S3PublicBaseURL string

	// SMTP (worker only)
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// Load resolves the API server configuration.
//
// ENV selects the profile (dev/test/prod). Any variable may be overridden with
// a profile-prefixed form, e.g. DEV_JWT_SECRET beats JWT_SECRET when ENV=dev.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{Env: envName()}

	cfg.HTTPAddr = cfg.getEnv("HTTP_ADDR", ":8080")

	// required values
	cfg.JWTSecret = cfg.lookup("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	cfg.DBAddr = cfg.lookup("DB_ADDR")
	if cfg.DBAddr == "" {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}

	cfg.ConfirmBaseURL = cfg.lookup("CONFIRM_BASE_URL")
	if cfg.ConfirmBaseURL == "" {
		return nil, fmt.Errorf("missing required env var: CONFIRM_BASE_URL")
	}
	if !strings.Contains(cfg.ConfirmBaseURL, "token=") {
		return nil, fmt.Errorf("CONFIRM_BASE_URL must contain `token=`")
	}

	// optional with defaults
	var err error
	if cfg.AccessTokenTTL, err = cfg.getDuration("ACCESS_TOKEN_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ConfirmTokenTTL, err = cfg.getDuration("CONFIRM_TOKEN_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = cfg.getInt("BCRYPT_COST", 0); err != nil {
		return nil, err
	}

	cfg.RabbitURL = cfg.lookup("RABBIT_URL")
	cfg.RedisAddr = cfg.lookup("REDIS_ADDR")
	cfg.RedisPassword = cfg.lookup("REDIS_PASSWORD")
	if cfg.RedisDB, err = cfg.getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	cfg.RabbitExchange = cfg.getEnv("RABBIT_EXCHANGE", "socialapi.events")
	cfg.RabbitQueue = cfg.getEnv("RABBIT_QUEUE", "socialapi.email")

	if cfg.AuthRateLimit, err = cfg.getInt("AUTH_RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.AuthRateWindow, err = cfg.getDuration("AUTH_RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	cfg.S3Endpoint = cfg.lookup("S3_ENDPOINT")
	cfg.S3Region = cfg.getEnv("S3_REGION", "us-east-1")
	cfg.S3AccessKey = cfg.lookup("S3_ACCESS_KEY")
	cfg.S3SecretKey = cfg.lookup("S3_SECRET_KEY")
	cfg.S3Bucket = cfg.lookup("S3_BUCKET")
	cfg.S3UsePathStyle = cfg.getBool("S3_USE_PATH_STYLE", true)
	cfg.S3PublicBaseURL = cfg.getEnv("S3_PUBLIC_BASE_URL", cfg.S3Endpoint+"/"+cfg.S3Bucket)

	if cfg.HTTPReadTimeout, err = cfg.getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = cfg.getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = cfg.getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadWorker resolves configuration for the email worker, which needs the
// message broker and SMTP but no database or signing secret.
func LoadWorker() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{Env: envName()}

	cfg.RabbitURL = cfg.lookup("RABBIT_URL")
	if cfg.RabbitURL == "" {
		return nil, fmt.Errorf("missing required env var: RABBIT_URL")
	}
	cfg.RabbitExchange = cfg.getEnv("RABBIT_EXCHANGE", "socialapi.events")
	cfg.RabbitQueue = cfg.getEnv("RABBIT_QUEUE", "socialapi.email")

	cfg.SMTPHost = cfg.lookup("SMTP_HOST")
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("missing required env var: SMTP_HOST")
	}
	var err error
	if cfg.SMTPPort, err = cfg.getInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	cfg.SMTPUser = cfg.lookup("SMTP_USER")
	cfg.SMTPPass = cfg.lookup("SMTP_PASS")
	cfg.SMTPFrom = cfg.getEnv("SMTP_FROM", "no-reply@socialapi.local")

	return cfg, nil
}

func envName() string {
	if v := os.Getenv("ENV"); v != "" {
		return strings.ToLower(v)
	}
	return "dev"
}

// lookup checks the profile-prefixed variable first, then the plain one.
func (c *Config) lookup(key string) string {
	if v := os.Getenv(strings.ToUpper(c.Env) + "_" + key); v != "" {
		return v
	}
	return os.Getenv(key)
}

func (c *Config) getEnv(key, def string) string {
	if v := c.lookup(key); v != "" {
		return v
	}
	return def
}

func (c *Config) getDuration(key string, def time.Duration) (time.Duration, error) {
	v := c.lookup(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func (c *Config) getInt(key string, def int) (int, error) {
	v := c.lookup(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func (c *Config) getBool(key string, def bool) bool {
	v := c.lookup(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
