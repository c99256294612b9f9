package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	Port     int

	// Database. A postgres:// URL selects PostgreSQL; anything else is
	// treated as a SQLite file path.
	DatabaseURL string

	// Redis quote cache. Empty disables caching.
	RedisURL string

	// RabbitMQ event publishing. Empty keeps events in-process.
	RabbitMQURL string

	// Quotes
	QuotesAPIKey string

	// Retention
	CompletedTaskRetention time.Duration
	RetentionSweepEnabled  bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Port:        getIntEnv("PORT", 5000),
		DatabaseURL: getEnv("DATABASE_URL", defaultSQLitePath()),
		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		QuotesAPIKey: getEnv("QUOTES_API_KEY", ""),

		CompletedTaskRetention: getDurationEnv("COMPLETED_TASK_RETENTION", 4*time.Hour),
		RetentionSweepEnabled:  getBoolEnv("RETENTION_SWEEP_ENABLED", true),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
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

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".focusboard/focusboard.db"
	}
	return home + "/.focusboard/focusboard.db"
}
