package jira

import (
	"context"
	"fmt"
	"net/url"

	"github.com/andyle182810/jiraclient/authsession"
	"github.com/andyle182810/jiraclient/cache"
	"github.com/andyle182810/jiraclient/httpclient"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const browsePath = "/browse/"

type Client struct {
	cfg       Config
	store     cache.Store
	logger    zerolog.Logger
	newClient func() *resty.Client

	sessions *authsession.Manager
	http     *httpclient.Client
	reads    *cache.Cache[cache.RequestKey, httpclient.Response]
	inflight singleflight.Group
}

func New(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	//nolint:exhaustruct
	c := &Client{
		cfg:       cfg,
		logger:    log.Logger,
		newClient: resty.New,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.store == nil {
		store, err := cache.Default()
		if err != nil {
			return nil, fmt.Errorf("jira: %w", err)
		}

		c.store = store
	}

	c.logger = c.logger.With().
		Str("component", "jira").
		Str("instance", cfg.InstanceURL).
		Logger()

	c.sessions = authsession.New(
		cfg.InstanceURL+authsession.LoginPath,
		cfg.Username,
		cfg.Password,
		authsession.WithTimeout(cfg.Timeout),
		authsession.WithInsecureSkipVerify(cfg.InsecureSkipVerify),
		authsession.WithClientFactory(c.newClient),
		authsession.WithLogger(c.logger),
	)

	c.http = httpclient.New(
		cfg.InstanceURL,
		c.sessions,
		httpclient.WithTimeout(cfg.Timeout),
		httpclient.WithLogger(c.logger),
	)

	c.reads = cache.New[cache.RequestKey, httpclient.Response](c.store, cfg.CacheTTL, cache.NewRequestKeyEncoder())

	return c, nil
}

func (c *Client) InstanceURL() string {
	return c.cfg.InstanceURL
}

// Session returns the authenticated transport, logging in on first use.
func (c *Client) Session(ctx context.Context) (*resty.Client, error) {
	return c.sessions.Session(ctx)
}

// ResetSession forgets the current login. The next call authenticates again.
func (c *Client) ResetSession() {
	c.sessions.Reset()
}

// MakeRequest dispatches a call against the instance. Relative targets are
// resolved against InstanceURL; GET payloads become the query string and other
// payloads the JSON body.
func (c *Client) MakeRequest(ctx context.Context, method, target string, payload any) (*httpclient.Response, error) {
	return c.http.Do(ctx, method, target, payload)
}

// IssueURL is the browser link of an issue.
func (c *Client) IssueURL(key string) string {
	return c.cfg.InstanceURL + browsePath + url.PathEscape(key)
}
