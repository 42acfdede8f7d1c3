// Package worldbank implements the paginated-ingestion pipeline against the
// World Bank v2 API: a retrying HTTP client, the two-element page envelope,
// per-dataset record mappers, and the collector that walks every page of a
// dataset into flat tuples.
//
// Design goals:
//
//   - Keep a tiny, explicit API (FetchPage, Collect).
//   - Treat "no more pages" as a benign sentinel, never as a failure.
//   - Handle transient failures with exponential backoff, configurable down
//     to zero retries.
//   - Respect context cancellation during requests and backoff waits.
//   - Be easy to test by injecting a custom RoundTripper and sleep function.
package worldbank

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ClientConfig configures the API client.
//
// Zero values are given sensible defaults:
//   - Timeout:        30s
//   - MaxRetries:     0 (only the initial attempt)
//   - InitialBackoff: 200ms
//   - MaxBackoff:     5s
type ClientConfig struct {
	// BaseURL is the API root without a trailing slash,
	// e.g. "https://api.worldbank.org/v2".
	BaseURL string

	// Timeout is the per-request timeout applied at the http.Client level.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the initial request.
	MaxRetries int

	// InitialBackoff is the base backoff duration for the first retry.
	// Each subsequent retry doubles the previous backoff up to MaxBackoff.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential backoff duration.
	MaxBackoff time.Duration

	// Transport is an optional custom RoundTripper, mainly for tests.
	Transport http.RoundTripper
}

// Client issues page requests against the API with retry and backoff.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration

	// sleep is injectable to make tests fast and deterministic.
	sleep func(time.Duration)
}

// NewClient constructs a Client from ClientConfig, applying defaults for
// zero values.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		sleep:          time.Sleep,
	}
}

// get issues one GET with retry and backoff on transient errors. The caller
// must close the response body. On error, either no response was obtained or
// every attempt hit a retryable status.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	attempts := c.maxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		// Respect context cancellation before each attempt.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("worldbank: build request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network or transport-level error. Treat as retryable.
			lastErr = err
		} else {
			// We have a response; decide whether to retry based on status.
			if !isRetryableStatus(resp.StatusCode) {
				return resp, nil
			}
			// Retryable status: close body and fall through to backoff.
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("worldbank: retryable status %d from GET %s", resp.StatusCode, url)
		}

		if attempt+1 >= attempts {
			return nil, lastErr
		}

		backoff := backoffDuration(c.initialBackoff, attempt, c.maxBackoff)
		if err := sleepWithContext(ctx, c.sleep, backoff); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// isRetryableStatus reports whether the given HTTP status code should trigger
// a retry. This is intentionally conservative: 5xx and 429 are treated as
// transient; everything else is considered final.
func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// backoffDuration returns the exponential backoff duration for the given
// attempt number (0-based retry index), clamped to max.
func backoffDuration(initial time.Duration, attempt int, max time.Duration) time.Duration {
	if attempt <= 0 {
		if initial > max {
			return max
		}
		return initial
	}
	d := initial << attempt
	if d > max {
		return max
	}
	return d
}

// sleepWithContext sleeps for d using the provided sleep function, but aborts
// early if ctx is canceled.
func sleepWithContext(ctx context.Context, sleep func(time.Duration), d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		// Use injected sleep just to keep behavior uniform; for most callers
		// this will be time.Sleep and the timer has already waited.
		sleep(0)
		return nil
	}
}
