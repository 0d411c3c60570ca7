package github

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
	"github.com/gitdocs-ai/gitdocs/internal/logger"
)

// searchPageSize is clamped to the API maximum.
const searchPageSize = 30

// FindFile searches the repository for a file with the given name and
// returns the first match's path and raw content.
func (c *Client) FindFile(ctx context.Context, owner, repo, filename string) (string, string, error) {
	query := fmt.Sprintf("filename:%s repo:%s/%s", filename, owner, repo)
	return c.searchAndFetch(ctx, owner, repo, query, func(p string) bool {
		return path.Base(p) == filename
	})
}

// FindReadme searches for a README.* file at the repository root.
func (c *Client) FindReadme(ctx context.Context, owner, repo string) (string, string, error) {
	query := fmt.Sprintf("filename:README repo:%s/%s", owner, repo)
	return c.searchAndFetch(ctx, owner, repo, query, func(p string) bool {
		return !strings.Contains(p, "/") && strings.HasPrefix(strings.ToUpper(path.Base(p)), "README")
	})
}

func (c *Client) searchAndFetch(
	ctx context.Context, owner, repo, query string, accept func(path string) bool,
) (string, string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", "", err
	}

	opts := &gh.SearchOptions{ListOptions: gh.ListOptions{Page: 1, PerPage: clampPerPage(searchPageSize)}}
	result, resp, err := c.gh.Search.Code(ctx, query, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return "", "", c.wrapError(err, "code search")
	}

	for _, item := range result.CodeResults {
		p := item.GetPath()
		if !accept(p) {
			continue
		}

		branch := c.DefaultBranch(ctx, owner, repo)
		content, err := c.RawFile(ctx, owner, repo, branch, p)
		if err != nil {
			logger.Debug("github: search hit %s unreadable: %v", p, err)
			continue
		}
		return p, content, nil
	}

	return "", "", fmt.Errorf("%w: no match for %q", domain.ErrNotFound, query)
}

// clampPerPage keeps page sizes within the API's accepted [1,100] range.
func clampPerPage(n int) int {
	if n < 1 {
		return 1
	}
	if n > 100 {
		return 100
	}
	return n
}

// wrapError converts go-github errors to connector error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
			URL:        ghErr.Response.Request.URL.String(),
		}
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   c.rateLimiter.ResetTime(),
			Remaining: c.rateLimiter.Remaining(),
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}
