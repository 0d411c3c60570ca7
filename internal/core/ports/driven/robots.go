package driven

import "context"

// RobotsPolicy gates raw content fetches on the target site's
// robots.txt. A missing or unparseable robots.txt allows everything.
type RobotsPolicy interface {
	// Allowed reports whether our crawler may fetch the URL. Each path
	// is judged independently; a disallow on one path says nothing
	// about the others.
	Allowed(ctx context.Context, rawURL string) bool
}
