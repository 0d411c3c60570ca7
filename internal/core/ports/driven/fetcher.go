package driven

import "context"

// SourceFetcher retrieves raw documentation content from GitHub.
// Implementations handle rate-limit backoff and response caching
// internally; callers see only content or an error.
type SourceFetcher interface {
	// RawFile fetches a file from raw content hosting for the given
	// branch and path. Returns domain.ErrNotFound when the file does
	// not exist.
	RawFile(ctx context.Context, owner, repo, branch, path string) (string, error)

	// Page fetches an arbitrary URL and returns the response body.
	// Returns domain.ErrNotFound on 404.
	Page(ctx context.Context, url string) (string, error)

	// DefaultBranch resolves the repository's default branch. It fails
	// open: on total failure it returns "main" rather than an error.
	DefaultBranch(ctx context.Context, owner, repo string) string
}

// CodeSearcher finds files in a repository via the code search API.
type CodeSearcher interface {
	// FindFile searches the repository for a file matching the given
	// filename query and returns the path and content of the best
	// match. Returns domain.ErrNotFound when nothing matches.
	FindFile(ctx context.Context, owner, repo, filename string) (path, content string, err error)

	// FindReadme searches for any README.* file at the repository root.
	FindReadme(ctx context.Context, owner, repo string) (path, content string, err error)
}
