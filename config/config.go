package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	DefaultAPIURL     = "http://localhost:8000/api"
	DefaultStateDSN   = "storefront.db"
	DefaultAPITimeout = 10 * time.Second
	DefaultCacheTTL   = 5 * time.Minute
	DefaultPort       = "8080"
	DefaultRateLimit  = 60
)

// Config is the resolved runtime configuration.
type Config struct {
	APIURL      string
	APITimeout  time.Duration
	StateDSN    string
	RedisAddr   string
	RedisPass   string
	CacheTTL    time.Duration
	Port        string
	FrontendURL string
	LogLevel    string
	// RateLimit is the number of write requests per minute the gateway
	// accepts from one client IP.
	RateLimit int
}

func LoadEnv() error {
	// A missing .env file is normal outside local development; the
	// environment is already populated in that case.
	_ = godotenv.Load()
	return nil
}

// ValidateEnv checks values that the storefront cannot run with when
// malformed. Missing optional settings only produce warnings.
func ValidateEnv(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var invalid []string

	if raw := os.Getenv("STOREFRONT_API_URL"); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			invalid = append(invalid, "STOREFRONT_API_URL")
		}
	}
	for _, key := range []string{"STOREFRONT_API_TIMEOUT", "CATALOG_CACHE_TTL"} {
		if raw := os.Getenv(key); raw != "" {
			if _, err := time.ParseDuration(raw); err != nil {
				invalid = append(invalid, key)
			}
		}
	}
	if raw := os.Getenv("RATE_LIMIT_PER_MINUTE"); raw != "" {
		if n, err := strconv.Atoi(raw); err != nil || n < 1 {
			invalid = append(invalid, "RATE_LIMIT_PER_MINUTE")
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid environment variables: %v", invalid)
	}

	if os.Getenv("STOREFRONT_API_URL") == "" {
		logger.Warn("STOREFRONT_API_URL not set, using default", zap.String("url", DefaultAPIURL))
	}
	if os.Getenv("STOREFRONT_STATE_DSN") == "" {
		logger.Warn("STOREFRONT_STATE_DSN not set, client state goes to the working directory", zap.String("dsn", DefaultStateDSN))
	}
	if os.Getenv("REDIS_ADDR") == "" {
		logger.Info("REDIS_ADDR not set, catalog cache stays in memory")
	}
	return nil
}

// Load reads the environment into a Config, applying defaults.
func Load() Config {
	return Config{
		APIURL:      strings.TrimRight(GetEnv("STOREFRONT_API_URL", DefaultAPIURL), "/"),
		APITimeout:  GetEnvDuration("STOREFRONT_API_TIMEOUT", DefaultAPITimeout),
		StateDSN:    GetEnv("STOREFRONT_STATE_DSN", DefaultStateDSN),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		CacheTTL:    GetEnvDuration("CATALOG_CACHE_TTL", DefaultCacheTTL),
		Port:        GetEnv("PORT", DefaultPort),
		FrontendURL: os.Getenv("FRONTEND_URL"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		RateLimit:   GetEnvInt("RATE_LIMIT_PER_MINUTE", DefaultRateLimit),
	}
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvDuration parses a Go duration ("15s", "5m"); unparsable values fall
// back to the default.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func GetEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
