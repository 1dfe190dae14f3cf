package authsession

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

type Option func(*Manager)

func WithTimeout(timeout time.Duration) Option {
	return func(m *Manager) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

// WithInsecureSkipVerify disables TLS certificate verification for the
// session. Only meant for self-hosted instances with private certificates.
func WithInsecureSkipVerify(skip bool) Option {
	return func(m *Manager) {
		m.insecureSkipVerify = skip
	}
}

// WithClientFactory sets how the underlying resty client is built. The
// manager still installs its cookie jar, timeout and logger on it.
func WithClientFactory(factory func() *resty.Client) Option {
	return func(m *Manager) {
		if factory != nil {
			m.newClient = factory
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}
