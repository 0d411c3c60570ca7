package domain

import "strings"

// URLKind classifies how a repository identity was derived from a request URL.
type URLKind string

const (
	// URLKindSubdomain is a GitHub Pages site (owner.github.io).
	URLKindSubdomain URLKind = "subdomain"

	// URLKindRepository is a plain owner/repo path.
	URLKindRepository URLKind = "repository"

	// URLKindUnknown is anything we could not classify.
	URLKindUnknown URLKind = "unknown"
)

// RepositoryIdentity identifies the repository a request refers to.
// It is derived once per request and never mutated; all caching and
// vector namespacing key off it.
type RepositoryIdentity struct {
	// Owner is the GitHub user or organisation.
	Owner string

	// Repo is the repository name. Empty when only a Pages subdomain
	// is known.
	Repo string

	// Kind records how the identity was derived.
	Kind URLKind
}

// ParseIdentity derives a RepositoryIdentity from a request host and path.
// Hosts of the form owner.github.io produce subdomain identities; a path
// with at least two segments produces a repository identity.
func ParseIdentity(host, path string) RepositoryIdentity {
	host = strings.ToLower(strings.TrimSpace(host))
	segments := splitPath(path)

	if owner, ok := strings.CutSuffix(host, ".github.io"); ok && owner != "" {
		id := RepositoryIdentity{Owner: owner, Kind: URLKindSubdomain}
		if len(segments) > 0 {
			id.Repo = segments[0]
		}
		return id
	}

	if len(segments) >= 2 {
		return RepositoryIdentity{
			Owner: segments[0],
			Repo:  segments[1],
			Kind:  URLKindRepository,
		}
	}

	if len(segments) == 1 {
		return RepositoryIdentity{Owner: segments[0], Kind: URLKindUnknown}
	}

	return RepositoryIdentity{Kind: URLKindUnknown}
}

// ParseRepoSlug parses an "owner/repo" slug into a repository identity.
func ParseRepoSlug(slug string) RepositoryIdentity {
	return ParseIdentity("", "/"+strings.Trim(slug, "/"))
}

// Namespace returns the vector index namespace for this identity.
// Namespaces isolate repositories that share one index.
func (id RepositoryIdentity) Namespace() string {
	return id.Owner + ":" + id.Repo
}

// String returns the canonical owner/repo form, used as a cache key.
func (id RepositoryIdentity) String() string {
	if id.Repo == "" {
		return id.Owner
	}
	return id.Owner + "/" + id.Repo
}

// PagesHost returns the GitHub Pages host for the owner.
func (id RepositoryIdentity) PagesHost() string {
	return id.Owner + ".github.io"
}

func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
