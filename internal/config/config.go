// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/api and cmd/earningsctl.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Provider registry
// --------------------------------------------------------------------------

const (
	ProviderYahoo = "yahoo"
	ProviderFMP   = "fmp"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Earnings provider
	EarningsProvider    string // yahoo | fmp
	YahooBaseURL        string
	FMPBaseURL          string
	FMPAPIKey           string
	ProviderRateLimit   int // upstream requests per minute
	FetchWindowDays     int // change-detection look-ahead window
	PollInterval        time.Duration
	MaintenanceInterval time.Duration

	// Web push (VAPID)
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string // mailto: contact for the push service
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	provider := strings.ToLower(envOr("EARNINGS_PROVIDER", ProviderYahoo))
	if provider != ProviderYahoo && provider != ProviderFMP {
		return nil, fmt.Errorf("EARNINGS_PROVIDER must be %q or %q, got %q",
			ProviderYahoo, ProviderFMP, provider)
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:4200",
			"http://localhost:5173",
			"http://localhost:8100",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		EarningsProvider:    provider,
		YahooBaseURL:        envOr("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		FMPBaseURL:          envOr("FMP_BASE_URL", "https://financialmodelingprep.com"),
		FMPAPIKey:           envOr("FMP_API_KEY", ""),
		ProviderRateLimit:   envInt("PROVIDER_RATE_LIMIT", 60),
		FetchWindowDays:     envInt("FETCH_WINDOW_DAYS", 7),
		PollInterval:        time.Duration(envInt("POLL_INTERVAL_HOURS", 6)) * time.Hour,
		MaintenanceInterval: time.Duration(envInt("MAINTENANCE_INTERVAL_MINUTES", 30)) * time.Minute,

		VAPIDPublicKey:  envOr("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: envOr("VAPID_PRIVATE_KEY", ""),
		VAPIDSubscriber: envOr("VAPID_SUBSCRIBER", "mailto:admin@localhost"),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
