package github

import (
	"context"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/oauth2"

	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driven"
	"github.com/gitdocs-ai/gitdocs/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RawContentHost serves raw file content.
	RawContentHost = "https://raw.githubusercontent.com"

	// FallbackBranch is used when branch resolution fails entirely.
	// Deliberate fail-open: a wrong branch yields a 404 downstream,
	// which the strategy cascade absorbs.
	FallbackBranch = "main"

	responseCacheSize = 512
)

// Ensure Client implements the fetch and search ports.
var (
	_ driven.SourceFetcher = (*Client)(nil)
	_ driven.CodeSearcher  = (*Client)(nil)
)

// Client fetches repository content over the GitHub API and raw
// content hosting. It implements driven.SourceFetcher and
// driven.CodeSearcher.
type Client struct {
	gh          *gh.Client
	http        *http.Client
	rateLimiter *RateLimiter
	cache       *lru.Cache[string, cachedResponse]
}

// NewClient creates a client. An empty token means anonymous access
// with the much smaller unauthenticated quota.
func NewClient(ctx context.Context, token string) *Client {
	// The token is scoped to the API client only. Page fetches reach
	// arbitrary hosts (github.io sites, raw content) and must never
	// carry the bearer token.
	apiClient := &http.Client{Timeout: DefaultTimeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		apiClient = oauth2.NewClient(ctx, ts)
		apiClient.Timeout = DefaultTimeout
	}

	cache, _ := lru.New[string, cachedResponse](responseCacheSize)

	c := &Client{
		gh:          gh.NewClient(apiClient),
		http:        &http.Client{Timeout: DefaultTimeout},
		rateLimiter: NewRateLimiter(),
		cache:       cache,
	}
	if token == "" {
		c.rateLimiter.remaining = UnauthenticatedRateLimit
		c.rateLimiter.limit = UnauthenticatedRateLimit
	}
	return c
}

// RateLimiter returns the limiter for external inspection.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// DefaultBranch resolves the repository's default branch. It asks the
// API first, probes main then master on failure, and finally fails
// open to FallbackBranch.
func (c *Client) DefaultBranch(ctx context.Context, owner, repo string) string {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return FallbackBranch
	}

	repository, resp, err := c.gh.Repositories.Get(ctx, owner, repo)
	c.updateRateLimitFromResponse(resp)
	if err == nil && repository.GetDefaultBranch() != "" {
		return repository.GetDefaultBranch()
	}
	logger.Debug("github: default branch lookup for %s/%s failed: %v", owner, repo, err)

	for _, candidate := range []string{"main", "master"} {
		if c.branchExists(ctx, owner, repo, candidate) {
			return candidate
		}
	}

	return FallbackBranch
}

func (c *Client) branchExists(ctx context.Context, owner, repo, branch string) bool {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return false
	}
	_, resp, err := c.gh.Repositories.GetBranch(ctx, owner, repo, branch, 0)
	c.updateRateLimitFromResponse(resp)
	return err == nil
}

// updateRateLimitFromResponse feeds GitHub response headers into the
// rate limiter.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}
