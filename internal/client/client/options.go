package client

import (
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/dmitrijs2005/lexqa/internal/logging"
)

// Option configures an HTTPClient in New.
type Option func(*HTTPClient) error

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.http = hc
		return nil
	}
}

// WithLogger sets the logger used for retries and debug output.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) error {
		c.log = logging.OrDiscard(l)
		return nil
	}
}

// WithListRetries sets how many times a failed document listing is retried.
func WithListRetries(n int) Option {
	return func(c *HTTPClient) error {
		if n < 0 {
			return fmt.Errorf("list retries must be >= 0")
		}
		c.listRetries = n
		return nil
	}
}

// WithBackOff replaces the retry schedule factory. Tests use it to avoid sleeping.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(c *HTTPClient) error {
		c.newBackOff = newBackOff
		return nil
	}
}

// WithDebugLogging logs every request and response line at debug level.
func WithDebugLogging(enabled bool) Option {
	return func(c *HTTPClient) error {
		c.debug = enabled
		return nil
	}
}
