package jira

import (
	"context"
	"errors"
	"net/http"

	"github.com/andyle182810/jiraclient/cache"
	"github.com/andyle182810/jiraclient/httpclient"
)

// GetCached serves a GET from the read cache, fetching and storing it on a
// miss. Concurrent misses for the same target share one request. The shared
// request ignores the cancellation of whichever caller started it and is
// bounded by the client timeout instead; each caller still stops waiting when
// its own context ends. Failed requests are not stored, and a failing store
// only costs the cache.
func (c *Client) GetCached(ctx context.Context, target string) (*httpclient.Response, error) {
	key := cache.RequestKey{URL: target, Instance: c.cfg.InstanceURL}

	cached, err := c.reads.Get(ctx, key)
	if err == nil {
		return cached, nil
	}

	if !errors.Is(err, cache.ErrKeyNotFound) {
		c.logger.Warn().Err(err).Str("url", target).Msg("Read cache lookup failed")
	}

	fetchCtx := context.WithoutCancel(ctx)

	results := c.inflight.DoChan(target, func() (any, error) {
		resp, err := c.MakeRequest(fetchCtx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}

		if err := c.reads.Set(fetchCtx, key, resp); err != nil {
			c.logger.Warn().Err(err).Str("url", target).Msg("Read cache store failed")
		}

		return resp, nil
	})

	select {
	case <-ctx.Done():
		return nil, httpclient.NewError(ctx.Err().Error())
	case result := <-results:
		if result.Err != nil {
			return nil, result.Err //nolint:wrapcheck
		}

		resp, _ := result.Val.(*httpclient.Response)

		return resp, nil
	}
}

// Forget drops the cached read of target.
func (c *Client) Forget(ctx context.Context, target string) error {
	return c.reads.Delete(ctx, cache.RequestKey{URL: target, Instance: c.cfg.InstanceURL})
}
