package sleeper

import (
	"net/http"
	"time"

	"github.com/okian/draftrank/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the projection endpoint. The season is appended as a path segment.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout bounds a single request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetries sets the total number of attempts per fetch.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.retries = n
		}
	}
}

// WithRetryDelay sets the linear backoff step. Attempt n+1 waits n*d.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.retryDelay = d
		}
	}
}

// WithMinInterval paces requests to at most one per d. Zero disables pacing.
func WithMinInterval(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.minInterval = d
		}
	}
}

// WithBreaker configures the circuit breaker: it opens after maxFailures
// consecutive failed fetches and stays open for openFor.
func WithBreaker(maxFailures int, openFor time.Duration) Option {
	return func(c *Client) {
		if maxFailures > 0 {
			c.breakerFailures = uint32(maxFailures)
		}
		if openFor > 0 {
			c.breakerOpen = openFor
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}
