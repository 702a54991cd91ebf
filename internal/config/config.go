package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppEnv string
	Port   string

	// Database: "sqlite" (default), "pgx" or "memory"
	DBDriver     string
	DBConnection string

	// Redis is optional; without REDIS_HOST caches and rate limits stay in process
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Security
	JWTSecret string
	JWTIssuer string
	JWTExpiry time.Duration

	// Rate limiting per client IP
	RateLimit  int
	RateWindow time.Duration
	// Proxies allowed to set X-Forwarded-For; empty trusts none
	TrustedProxies []string

	// Background progress recompute
	WorkerQueueSize int

	// Observability (optional)
	SentryDSN   string
	MetricsUser string
	MetricsPass string

	SwaggerEnabled bool
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required in production")

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppEnv: envString("APP_ENV", "development"),
		Port:   envString("PORT", "8080"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/readtrack.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_time_format=sqlite"),

		RedisHost:     envString("REDIS_HOST", ""),
		RedisPort:     envString("REDIS_PORT", "6379"),
		RedisPassword: envString("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		JWTSecret: envString("JWT_SECRET", ""),
		JWTIssuer: envString("JWT_ISSUER", "readtrack"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour),

		RateLimit:  envInt("RATE_LIMIT", 100),
		RateWindow: envDuration("RATE_WINDOW", time.Minute),

		TrustedProxies: envList("TRUSTED_PROXIES"),

		WorkerQueueSize: envInt("WORKER_QUEUE_SIZE", 100),

		SentryDSN:   envString("SENTRY_DSN", ""),
		MetricsUser: envString("METRICS_USER", ""),
		MetricsPass: envString("METRICS_PASS", ""),

		SwaggerEnabled: envBool("SWAGGER_ENABLED", true),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingJWTSecret
		}
		cfg.JWTSecret = "dev-secret-change-me"
		slog.Warn("JWT_SECRET not set, using development secret")
	}

	return cfg, nil
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envList splits a comma separated variable, dropping blank entries.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func (c *Config) MetricsAuthEnabled() bool {
	return c.MetricsUser != ""
}
