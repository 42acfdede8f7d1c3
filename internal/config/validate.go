// Package config provides configuration models and helpers for the wbetl job.
//
// This file adds a lightweight validator for Config values. It performs
// static checks over a loaded Config and returns a list of issues (errors and
// warnings) that callers can surface in the CLI before any network or
// database activity is attempted.
package config

import (
	"fmt"
	"strings"
	"time"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be
	// surfaced to users but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Config.
//
// Path names the offending setting (e.g. "DB_USER", "WB_BATCH_SIZE").
// Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue in the slice is of error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate performs static validation of a Config. It does not mutate the
// config; it returns a slice of Issue values. Callers decide whether to treat
// warnings as fatal.
func (c Config) Validate() []Issue {
	var issues []Issue

	required := []struct {
		name  string
		value string
	}{
		{"DB_USER", c.DBUser},
		{"DB_PASS", c.DBPass},
		{"DB_HOST", c.DBHost},
		{"DB_PORT", c.DBPort},
		{"DB_NAME", c.DBName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     r.name,
				Message:  "required setting is missing or empty",
			})
		}
	}

	if strings.TrimSpace(c.BaseURL) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "WB_API_URL",
			Message:  "API base URL must not be empty",
		})
	} else if strings.HasSuffix(c.BaseURL, "/") {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "WB_API_URL",
			Message:  "base URL has a trailing slash; endpoint paths are joined with one",
		})
	}

	if c.MaxRetries < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "WB_MAX_RETRIES",
			Message:  "retry count must not be negative",
		})
	}
	if c.Timeout <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "WB_TIMEOUT",
			Message:  "per-request timeout must be positive",
		})
	}
	if c.Pacing < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "WB_PACING",
			Message:  "pacing delay must not be negative",
		})
	} else if c.Pacing > 10*time.Second {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "WB_PACING",
			Message:  fmt.Sprintf("pacing of %s will make the observation load very slow", c.Pacing),
		})
	}
	if c.MaxParallel <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "WB_MAX_PARALLEL",
			Message:  "page fan-out must be at least 1",
		})
	}
	if c.BatchSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "WB_BATCH_SIZE",
			Message:  "batch size must be positive",
		})
	}

	return issues
}
