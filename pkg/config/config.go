package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "gymstore-dev-secret"

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	HTTPAddr string

	// Database. An empty DatabaseURL selects the local SQLite store.
	DatabaseURL string
	SQLitePath  string

	// Redis backs the plan cache; empty disables it.
	RedisURL     string
	PlanCacheTTL time.Duration

	// RabbitMQ receives outbox events; empty logs them instead.
	RabbitMQURL string

	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	// Purchasing
	PurchaseMaxAttempts int
	HonorExpiredCoupons bool

	// Outbox
	OutboxPollInterval    time.Duration
	OutboxBatchSize       int
	OutboxMaxRetries      int
	OutboxRetentionDays   int
	OutboxCleanupInterval time.Duration

	// Circuit breaker around the broker
	BreakerFailureThreshold uint32
	BreakerOpenTimeout      time.Duration
}

// Load loads configuration from environment variables, reading .env first
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("GYMSTORE_ENV", "development"),
		HTTPAddr: getEnv("GYMSTORE_HTTP_ADDR", "0.0.0.0:8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("GYMSTORE_SQLITE_PATH", getDefaultSQLitePath()),

		RedisURL:     getEnv("REDIS_URL", ""),
		PlanCacheTTL: getDurationEnv("GYMSTORE_PLAN_CACHE_TTL", 10*time.Minute),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		JWTSecret: getEnv("GYMSTORE_JWT_SECRET", DefaultJWTSecret),
		JWTTTL:    getDurationEnv("GYMSTORE_JWT_TTL", 24*time.Hour),

		PurchaseMaxAttempts: getIntEnv("GYMSTORE_PURCHASE_MAX_ATTEMPTS", 3),
		HonorExpiredCoupons: getBoolEnv("GYMSTORE_HONOR_EXPIRED_COUPONS", false),

		OutboxPollInterval:    getDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
		OutboxBatchSize:       getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:      getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetentionDays:   getIntEnv("OUTBOX_RETENTION_DAYS", 14),
		OutboxCleanupInterval: getDurationEnv("OUTBOX_CLEANUP_INTERVAL", 24*time.Hour),

		BreakerFailureThreshold: uint32(getIntEnv("BREAKER_FAILURE_THRESHOLD", 5)),
		BreakerOpenTimeout:      getDurationEnv("BREAKER_OPEN_TIMEOUT", 30*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that are unsafe to run.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == DefaultJWTSecret {
		return errors.New("GYMSTORE_JWT_SECRET must be set in production")
	}
	if c.PurchaseMaxAttempts < 1 {
		return errors.New("GYMSTORE_PURCHASE_MAX_ATTEMPTS must be at least 1")
	}
	if c.OutboxBatchSize < 1 {
		return errors.New("OUTBOX_BATCH_SIZE must be at least 1")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesPostgres reports whether a PostgreSQL URL was configured.
func (c *Config) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "gymstore.db"
	}
	return home + "/.gymstore/gymstore.db"
}
