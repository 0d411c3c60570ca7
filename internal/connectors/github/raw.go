package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
	"github.com/gitdocs-ai/gitdocs/internal/logger"
)

const (
	// MaxFetchRetries bounds retries on rate limits and transient
	// failures.
	MaxFetchRetries = 3

	// maxRetryInterval caps a single backoff wait.
	maxRetryInterval = 60 * time.Second

	// Response cache TTLs by status class. Server errors are not
	// cached at all.
	successTTL  = time.Hour
	notFoundTTL = 60 * time.Second

	maxBodySize = 4 << 20
)

// cachedResponse is a raw fetch result cached by URL.
type cachedResponse struct {
	status    int
	body      string
	expiresAt time.Time
}

// RawFile fetches a file from raw content hosting.
func (c *Client) RawFile(ctx context.Context, owner, repo, branch, path string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/%s/%s", RawContentHost, owner, repo, branch, strings.TrimPrefix(path, "/"))
	return c.Page(ctx, url)
}

// Page fetches an arbitrary URL with bounded retry and status-class
// response caching. Returns domain.ErrNotFound on 404 and
// domain.ErrRateLimited once the retry budget is exhausted on 429s.
func (c *Client) Page(ctx context.Context, url string) (string, error) {
	if cached, ok := c.cache.Get(url); ok && time.Now().Before(cached.expiresAt) {
		logger.Debug("github: cache hit for %s (status %d)", url, cached.status)
		return c.fromCached(cached)
	}

	var status int
	var body string

	operation := func() error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			// Transient network failure: retry.
			return err
		}
		defer resp.Body.Close()

		if rlErr := c.rateLimiter.CheckRateLimit(resp); rlErr != nil {
			return rlErr
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return err
		}

		if resp.StatusCode >= 500 {
			return fmt.Errorf("github: server error %d for %s", resp.StatusCode, url)
		}

		status = resp.StatusCode
		body = string(data)
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(retryBackOff(), MaxFetchRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if IsRateLimited(err) {
			logger.Warn("github: retries exhausted for %s: %v", url, err)
			return "", fmt.Errorf("%w: %s", domain.ErrRateLimited, url)
		}
		return "", err
	}

	c.store(url, status, body)

	if status == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, url)
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("github: unexpected status %d for %s", status, url)
	}
	return body, nil
}

// retryBackOff builds the retry policy; a variable so tests can swap
// in a zero-wait policy.
var retryBackOff = newBackOff

func newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = maxRetryInterval
	return b
}

func (c *Client) store(url string, status int, body string) {
	var ttl time.Duration
	switch {
	case status >= 200 && status < 300:
		ttl = successTTL
	case status == http.StatusNotFound:
		ttl = notFoundTTL
	default:
		return
	}
	c.cache.Add(url, cachedResponse{status: status, body: body, expiresAt: time.Now().Add(ttl)})
}

func (c *Client) fromCached(cached cachedResponse) (string, error) {
	if cached.status == http.StatusNotFound {
		return "", domain.ErrNotFound
	}
	return cached.body, nil
}
