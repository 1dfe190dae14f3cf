package httpclient

import (
	"maps"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultTimeout    = 5 * time.Second
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"
	HeaderXRequestID  = "X-Request-ID"
	ContentTypeJSON   = "application/json"
)

type Option func(*Client)

// WithTimeout bounds every dispatched call. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.timeout = timeout
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		maps.Copy(c.defaultHeaders, headers)
	}
}
