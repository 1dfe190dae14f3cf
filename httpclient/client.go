package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	msgInternalError   = "Internal Error"
	msgUnexpectedError = "Internal error"
)

// SessionProvider hands out the authenticated transport used for a call.
type SessionProvider interface {
	Session(ctx context.Context) (*resty.Client, error)
}

type Client struct {
	baseURL        string
	sessions       SessionProvider
	timeout        time.Duration
	defaultHeaders map[string]string
	logger         zerolog.Logger
}

func New(baseURL string, sessions SessionProvider, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		sessions: sessions,
		timeout:  DefaultTimeout,
		defaultHeaders: map[string]string{
			HeaderAccept: ContentTypeJSON,
		},
		logger: log.Logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get sends params as the query string. params may be nil, a
// map[string]string, a map[string]any (values formatted with fmt.Sprint, nil
// values skipped) or url.Values.
func (c *Client) Get(ctx context.Context, target string, params any) (*Response, error) {
	return c.Do(ctx, http.MethodGet, target, params)
}

// Post sends payload as a JSON body.
func (c *Client) Post(ctx context.Context, target string, payload any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, target, payload)
}

// Do dispatches one call. Every failure is returned as an *Error.
func (c *Client) Do(ctx context.Context, method, target string, payload any) (*Response, error) {
	target = c.resolveURL(target)

	session, err := c.sessions.Session(ctx)
	if err != nil {
		return nil, c.translateError(target, err, nil)
	}

	reqCtx := ctx

	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	requestID := uuid.New().String()

	req, err := c.buildRequest(reqCtx, session, method, payload, requestID)
	if err != nil {
		return nil, c.translateError(target, err, nil)
	}

	resp, err := req.Execute(method, target)
	if err != nil {
		return nil, c.translateError(target, err, resp)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode()).
		Dur("latency", resp.Time()).
		Str("request_id", requestID).
		Msg("Request completed")

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return nil, NewUnauthorizedFromResponse(resp)
	case resp.StatusCode() < 200 || resp.StatusCode() >= 300:
		return nil, NewErrorFromResponse(resp)
	default:
		return NewResponseFromResty(resp), nil
	}
}

func (c *Client) resolveURL(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}

	if target != "" && !strings.HasPrefix(target, "/") {
		target = "/" + target
	}

	return c.baseURL + target
}

func (c *Client) buildRequest(
	ctx context.Context,
	session *resty.Client,
	method string,
	payload any,
	requestID string,
) (*resty.Request, error) {
	req := session.R().
		SetContext(ctx).
		SetHeaders(c.defaultHeaders).
		SetHeader(HeaderXRequestID, requestID)

	if method == http.MethodGet {
		if err := setQuery(req, payload); err != nil {
			return nil, err
		}

		return req, nil
	}

	if payload != nil {
		req.SetHeader(HeaderContentType, ContentTypeJSON).SetBody(payload)
	}

	return req, nil
}

func setQuery(req *resty.Request, payload any) error {
	switch params := payload.(type) {
	case nil:
	case map[string]string:
		req.SetQueryParams(params)
	case map[string]any:
		for key, value := range params {
			if value != nil {
				req.SetQueryParam(key, fmt.Sprint(value))
			}
		}
	case url.Values:
		req.SetQueryParamsFromValues(params)
	default:
		return fmt.Errorf("%w: %T", ErrInvalidPayload, payload)
	}

	return nil
}

func (c *Client) translateError(target string, err error, resp *resty.Response) *Error {
	if apiErr, ok := AsError(err); ok {
		return apiErr
	}

	if isConnectionError(err) {
		return NewError(transportMessage(err))
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		switch {
		case resp == nil || resp.RawResponse == nil:
			return NewError(msgInternalError)
		case resp.StatusCode() == http.StatusUnauthorized:
			return NewUnauthorizedFromResponse(resp)
		default:
			return NewErrorFromResponse(resp)
		}
	}

	if isBodyReadFailure(err) {
		return NewError(transportMessage(err))
	}

	c.logger.Error().
		Err(err).
		Str("url", target).
		Str("message", truncate(err.Error(), messageLength)).
		Msg("Error in request")

	return NewErrorWithStatus(msgUnexpectedError, http.StatusInternalServerError)
}

func isConnectionError(err error) bool {
	var (
		opErr   *net.OpError
		dnsErr  *net.DNSError
		certErr *tls.CertificateVerificationError
	)

	return errors.As(err, &opErr) || errors.As(err, &dnsErr) || errors.As(err, &certErr)
}

// isBodyReadFailure matches errors raised after the headers arrived, while the
// body was still streaming. resty returns those unwrapped.
func isBodyReadFailure(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// transportMessage prefers the *url.Error text, which names the method and
// URL without any wrapping added on the way up.
func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Error()
	}

	return err.Error()
}
