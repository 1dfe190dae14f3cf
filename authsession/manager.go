package authsession

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/andyle182810/jiraclient/httpclient"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"
)

var (
	ErrAuthRequest = errors.New("authsession: login request failed")
	ErrCookieJar   = errors.New("authsession: failed to create cookie jar")
)

const (
	DefaultTimeout = 5 * time.Second
	LoginPath      = "/rest/auth/1/session"

	msgInternalError = "Internal Error"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Manager owns the single authenticated transport of one Jira instance. The
// login happens on first use and is not repeated once it succeeded.
type Manager struct {
	loginURL           string
	username           string
	password           string
	timeout            time.Duration
	insecureSkipVerify bool
	newClient          func() *resty.Client
	logger             zerolog.Logger

	mu      sync.RWMutex
	session *resty.Client
}

func New(loginURL, username, password string, opts ...Option) *Manager {
	m := &Manager{
		loginURL:           loginURL,
		username:           username,
		password:           password,
		timeout:            DefaultTimeout,
		insecureSkipVerify: false,
		newClient:          resty.New,
		logger:             log.Logger,
		mu:                 sync.RWMutex{},
		session:            nil,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Session returns the authenticated client, logging in when there is none yet.
// A failed login leaves the manager without a session so the next call retries.
func (m *Manager) Session(ctx context.Context) (*resty.Client, error) {
	m.mu.RLock()
	if m.session != nil {
		session := m.session
		m.mu.RUnlock()

		return session, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		return m.session, nil
	}

	session, err := m.login(ctx)
	if err != nil {
		return nil, err
	}

	m.session = session

	return session, nil
}

func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.session != nil
}

// Reset drops the current session. The next Session call logs in again.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil
}

func (m *Manager) login(ctx context.Context) (*resty.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCookieJar, err)
	}

	client := m.newClient().
		SetCookieJar(jar).
		SetTimeout(m.timeout).
		SetLogger(newRestyLogger(m.logger))

	if m.insecureSkipVerify {
		client.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec,exhaustruct
	}

	resp, err := client.R().
		SetContext(ctx).
		SetHeader(httpclient.HeaderContentType, httpclient.ContentTypeJSON).
		SetHeader(httpclient.HeaderAccept, httpclient.ContentTypeJSON).
		SetBody(credentials{Username: m.username, Password: m.password}).
		Post(m.loginURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthRequest, err)
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusUnauthorized:
		return nil, httpclient.NewUnauthorizedFromResponse(resp)
	case status >= http.StatusInternalServerError:
		m.logger.Error().
			Str("url", m.loginURL).
			Int("status", status).
			Str("body", string(resp.Body())).
			Msg("Jira login failed")

		return nil, httpclient.NewError(msgInternalError)
	case status < http.StatusOK || status >= http.StatusMultipleChoices:
		return nil, httpclient.NewErrorFromResponse(resp)
	}

	m.logger.Debug().
		Str("url", m.loginURL).
		Str("username", m.username).
		Msg("Jira session created")

	return client, nil
}
