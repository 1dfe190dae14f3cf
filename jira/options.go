package jira

import (
	"github.com/andyle182810/jiraclient/cache"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

type Option func(*Client)

// WithStore sets the read cache backend. Clients share cache.Default() when
// no store is given.
func WithStore(store cache.Store) Option {
	return func(c *Client) {
		if store != nil {
			c.store = store
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClientFactory sets how the session's resty client is built.
func WithClientFactory(factory func() *resty.Client) Option {
	return func(c *Client) {
		if factory != nil {
			c.newClient = factory
		}
	}
}
