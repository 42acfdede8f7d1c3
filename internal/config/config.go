// Package config defines the immutable runtime configuration for the wbetl
// batch job. Settings are gathered once from the process environment and
// passed explicitly to each component; nothing below this layer reads the
// environment on its own.
//
// Required settings (the destination database credentials) come from:
//
//	DB_USER, DB_PASS, DB_HOST, DB_PORT, DB_NAME
//
// Optional settings tune the API client and the loader:
//
//	WB_API_URL      base API URL (default https://api.worldbank.org/v2)
//	WB_MAX_RETRIES  retries per page request after the initial attempt
//	WB_TIMEOUT      per-request timeout (Go duration, default 30s)
//	WB_PACING       delay between observation page requests (default 500ms)
//	WB_MAX_PARALLEL bounded page fan-out when pacing is disabled (default 4)
//	WB_BATCH_SIZE   rows per bulk-insert batch (default 5000)
package config

import (
	"net/url"
	"os"
	"strconv"
	"time"
)

// Defaults applied by FromEnv for optional settings.
const (
	DefaultBaseURL     = "https://api.worldbank.org/v2"
	DefaultMaxRetries  = 2
	DefaultTimeout     = 30 * time.Second
	DefaultPacing      = 500 * time.Millisecond
	DefaultMaxParallel = 4
	DefaultBatchSize   = 5000
)

// Config holds every setting the job needs. It is treated as immutable after
// FromEnv returns.
type Config struct {
	// Destination database credentials. All five are required.
	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	// BaseURL is the World Bank API root, without a trailing slash.
	BaseURL string

	// MaxRetries is the number of retry attempts per page request after the
	// initial one. Zero disables retries entirely.
	MaxRetries int

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// Pacing is the delay inserted between consecutive page requests for the
	// observation dataset, whose request volume is far larger than the other
	// two datasets.
	Pacing time.Duration

	// MaxParallel bounds concurrent page fetches for datasets with no pacing.
	MaxParallel int

	// BatchSize is the number of rows per bulk-insert batch.
	BatchSize int
}

// FromEnv reads the environment once and returns a Config with defaults
// applied to optional settings. Missing required settings are left empty and
// surface through Validate; FromEnv itself never fails.
func FromEnv() Config {
	return Config{
		DBUser:      os.Getenv("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"),
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      os.Getenv("DB_PORT"),
		DBName:      os.Getenv("DB_NAME"),
		BaseURL:     envString("WB_API_URL", DefaultBaseURL),
		MaxRetries:  envInt("WB_MAX_RETRIES", DefaultMaxRetries),
		Timeout:     envDuration("WB_TIMEOUT", DefaultTimeout),
		Pacing:      envDuration("WB_PACING", DefaultPacing),
		MaxParallel: envInt("WB_MAX_PARALLEL", DefaultMaxParallel),
		BatchSize:   envInt("WB_BATCH_SIZE", DefaultBatchSize),
	}
}

// DSN builds the Postgres connection string for the configured credentials.
// The managed destination requires TLS, so sslmode=require is always set.
// User and password are URL-escaped.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=require",
	}
	return u.String()
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
