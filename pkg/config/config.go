package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// Every environment variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Market data API
	Market MarketConfig

	// Watchlist is the fixed, ordered list of tickers considered each run.
	Watchlist []string

	// Query
	Query QueryConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// MarketConfig holds Massive API configuration.
type MarketConfig struct {
	BaseURL string

	// Credential source: APIKeyFile wins when set, otherwise the key is
	// read from the APIKeyEnv environment variable at run time.
	APIKeyEnv  string
	APIKeyFile string

	RequestTimeout time.Duration
	MaxAttempts    int           // total attempts per ticker, >= 1
	RetryDelay     time.Duration // base delay for backoff and fixed-delay retries
	PaceDelay      time.Duration // static delay between ticker calls
}

// QueryConfig holds read-path configuration.
type QueryConfig struct {
	Days     int // trailing window size, including today
	CacheTTL time.Duration
}

// SchedulerConfig holds the embedded cron trigger configuration.
type SchedulerConfig struct {
	Enabled  bool
	CronSpec string // with seconds field, e.g. "0 30 16 * * 1-5"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Market: MarketConfig{
			BaseURL:        getEnv("MASSIVE_BASE_URL", "https://api.massive.com/v1"),
			APIKeyEnv:      getEnv("MASSIVE_API_KEY_ENV", "MASSIVE_API_KEY"),
			APIKeyFile:     getEnv("MASSIVE_API_KEY_FILE", ""),
			RequestTimeout: getEnvAsDuration("MASSIVE_REQUEST_TIMEOUT", "10s"),
			MaxAttempts:    getEnvAsInt("MASSIVE_MAX_ATTEMPTS", 3),
			RetryDelay:     getEnvAsDuration("MASSIVE_RETRY_DELAY", "1s"),
			PaceDelay:      getEnvAsDuration("MASSIVE_PACE_DELAY", "1s"),
		},

		Watchlist: getEnvAsList("WATCHLIST", "AAPL,MSFT,GOOGL,AMZN,TSLA,NVDA"),

		Query: QueryConfig{
			Days:     getEnvAsInt("QUERY_DAYS", 7),
			CacheTTL: getEnvAsDuration("QUERY_CACHE_TTL", "1m"),
		},

		Scheduler: SchedulerConfig{
			Enabled:  getEnvAsBool("SCHEDULER_ENABLED", false),
			CronSpec: getEnv("SCHEDULER_CRON", "0 30 16 * * 1-5"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if len(c.Watchlist) == 0 {
		return fmt.Errorf("WATCHLIST must contain at least one ticker")
	}

	if c.Market.MaxAttempts < 1 {
		return fmt.Errorf("MASSIVE_MAX_ATTEMPTS must be >= 1")
	}

	if c.Query.Days < 1 {
		return fmt.Errorf("QUERY_DAYS must be >= 1")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList parses a comma-separated value preserving element order.
func getEnvAsList(key, defaultValue string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	parts := strings.Split(valueStr, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			list = append(list, strings.ToUpper(p))
		}
	}
	return list
}
