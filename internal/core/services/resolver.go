package services

import (
	"context"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driven"
	"github.com/gitdocs-ai/gitdocs/internal/logger"
)

const (
	// ResolveCacheTTL is how long a resolution outcome is reused.
	ResolveCacheTTL = 30 * time.Minute

	resolveCacheSize = 256
)

// staticManifestPaths are probed concurrently, but the winner is
// always the first non-empty result in this declared order, never
// fetch-completion order.
var staticManifestPaths = []string{
	"docs/docs/llms.txt",
	"llms.txt",
	"docs/llms.txt",
}

// Resolver decides which document represents "the docs" for a
// repository by trying ordered strategies and caching the outcome.
type Resolver struct {
	fetcher  driven.SourceFetcher
	searcher driven.CodeSearcher
	store    driven.ObjectStore
	robots   driven.RobotsPolicy
	html     driven.HTMLConverter
	tasks    driven.TaskQueue
	cache    *expirable.LRU[string, domain.ResolvedDocument]

	// OnResolved is invoked on the task queue after every fresh
	// successful resolution, feeding the indexing pipeline. Detached:
	// it must never block or fail the resolution path.
	OnResolved func(ctx context.Context, id domain.RepositoryIdentity, doc domain.ResolvedDocument)
}

// NewResolver creates a resolver. The object store, robots policy,
// HTML converter and task queue are optional; missing collaborators
// disable their strategy rather than failing resolution.
func NewResolver(
	fetcher driven.SourceFetcher,
	searcher driven.CodeSearcher,
	store driven.ObjectStore,
	robotsPolicy driven.RobotsPolicy,
	html driven.HTMLConverter,
	tasks driven.TaskQueue,
) *Resolver {
	return &Resolver{
		fetcher:  fetcher,
		searcher: searcher,
		store:    store,
		robots:   robotsPolicy,
		html:     html,
		tasks:    tasks,
		cache:    expirable.NewLRU[string, domain.ResolvedDocument](resolveCacheSize, nil, ResolveCacheTTL),
	}
}

// Resolve produces exactly one ResolvedDocument for the identity. The
// terminal not-found and robots-restricted outcomes are values, not
// errors; an error is returned only for malformed identities.
func (r *Resolver) Resolve(ctx context.Context, id domain.RepositoryIdentity) (domain.ResolvedDocument, error) {
	if id.Owner == "" {
		return domain.ResolvedDocument{}, domain.ErrInvalidInput
	}

	key := id.String()
	if doc, ok := r.cache.Get(key); ok {
		logger.Debug("resolver: cache hit for %s", key)
		return doc, nil
	}

	logger.Section("Documentation Resolution")
	logger.Debug("resolver: %s (%s)", key, id.Kind)

	var doc domain.ResolvedDocument
	switch {
	case id.Kind == domain.URLKindSubdomain:
		doc = r.resolveSubdomain(ctx, id)
	case id.Repo != "":
		doc = r.resolveRepository(ctx, id)
	default:
		doc = domain.NotFoundDocument()
	}

	r.cache.Add(key, doc)

	if doc.Found() {
		logger.Info("resolver: %s resolved via %s (%d bytes)", key, doc.FileLabel, len(doc.Content))
		r.enqueueProcessing(id, doc)
	} else {
		logger.Info("resolver: %s terminal outcome: %s", key, doc.Status)
	}

	return doc, nil
}

// enqueueProcessing submits the documentation-processing event for
// downstream indexing. Fire and forget.
func (r *Resolver) enqueueProcessing(id domain.RepositoryIdentity, doc domain.ResolvedDocument) {
	if r.tasks == nil || r.OnResolved == nil {
		return
	}
	r.tasks.Submit("process-documentation", func(ctx context.Context) {
		logger.Debug("processing event: repo=%s file=%s bytes=%d", id, doc.FileLabel, len(doc.Content))
		r.OnResolved(ctx, id, doc)
	})
}

// resolveSubdomain handles GitHub Pages sites: llms.txt at the site
// root, then the landing page converted to markdown, then README.md
// from the backing repository. Every page fetch is independently
// robots-gated; a disallowed llms.txt is a hard stop per contract.
func (r *Resolver) resolveSubdomain(ctx context.Context, id domain.RepositoryIdentity) domain.ResolvedDocument {
	base := "https://" + id.PagesHost()
	if id.Repo != "" {
		base += "/" + id.Repo
	}
	robotsBlocked := false

	llmsURL := base + "/llms.txt"
	if !r.allowed(ctx, llmsURL) {
		logger.Debug("resolver: %s disallowed by robots.txt", llmsURL)
		return domain.RobotsRestrictedDocument()
	}
	if body, err := r.fetcher.Page(ctx, llmsURL); err == nil && strings.TrimSpace(body) != "" {
		return domain.ResolvedDocument{
			FileLabel:  "llms.txt",
			Content:    body,
			SourcePath: "llms.txt",
			Status:     domain.ResolveFound,
		}
	}

	landingURL := base + "/"
	if !r.allowed(ctx, landingURL) {
		logger.Debug("resolver: %s disallowed by robots.txt", landingURL)
		robotsBlocked = true
	} else if page, err := r.fetcher.Page(ctx, landingURL); err == nil && strings.TrimSpace(page) != "" {
		if r.html != nil {
			if md, err := r.html.Convert(page); err == nil && strings.TrimSpace(md) != "" {
				return domain.ResolvedDocument{
					FileLabel: "landing page (converted)",
					Content:   md,
					Status:    domain.ResolveFound,
				}
			}
		}
	}

	repo := id.Repo
	if repo == "" {
		repo = id.PagesHost()
	}
	branch := r.fetcher.DefaultBranch(ctx, id.Owner, repo)
	if content, err := r.fetcher.RawFile(ctx, id.Owner, repo, branch, "README.md"); err == nil && strings.TrimSpace(content) != "" {
		return domain.ResolvedDocument{
			FileLabel:    "README.md",
			Content:      content,
			SourcePath:   "README.md",
			SourceBranch: branch,
			Status:       domain.ResolveFound,
		}
	}

	if robotsBlocked {
		return domain.RobotsRestrictedDocument()
	}
	return domain.NotFoundDocument()
}

// resolveRepository handles owner/repo identities: static llms.txt
// paths, then code search for llms.txt, then the pre-generated store,
// then any root README. The first strategy yielding non-empty content
// wins and all later strategies are skipped.
func (r *Resolver) resolveRepository(ctx context.Context, id domain.RepositoryIdentity) domain.ResolvedDocument {
	branch := r.fetcher.DefaultBranch(ctx, id.Owner, id.Repo)

	if doc, ok := r.probeStaticPaths(ctx, id, branch); ok {
		return doc
	}

	if r.searcher != nil {
		if p, content, err := r.searcher.FindFile(ctx, id.Owner, id.Repo, "llms.txt"); err == nil && strings.TrimSpace(content) != "" {
			return domain.ResolvedDocument{
				FileLabel:    "llms.txt",
				Content:      content,
				SourcePath:   p,
				SourceBranch: branch,
				Status:       domain.ResolveFound,
			}
		}
	}

	if r.store != nil {
		key := id.Owner + "/" + id.Repo + "/llms.txt"
		if blob, err := r.store.Get(ctx, key); err == nil && strings.TrimSpace(string(blob)) != "" {
			return domain.ResolvedDocument{
				FileLabel: "llms.txt (pre-generated)",
				Content:   string(blob),
				Status:    domain.ResolveFound,
			}
		}
	}

	if r.searcher != nil {
		if p, content, err := r.searcher.FindReadme(ctx, id.Owner, id.Repo); err == nil && strings.TrimSpace(content) != "" {
			return domain.ResolvedDocument{
				FileLabel:    path.Base(p),
				Content:      content,
				SourcePath:   p,
				SourceBranch: branch,
				Status:       domain.ResolveFound,
			}
		}
	}

	return domain.NotFoundDocument()
}

// probeStaticPaths fetches the candidate manifest paths concurrently
// for latency only; selection is by declared priority order regardless
// of which fetch completes first.
func (r *Resolver) probeStaticPaths(
	ctx context.Context, id domain.RepositoryIdentity, branch string,
) (domain.ResolvedDocument, bool) {
	results := make([]string, len(staticManifestPaths))

	var wg sync.WaitGroup
	for i, p := range staticManifestPaths {
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()
			content, err := r.fetcher.RawFile(ctx, id.Owner, id.Repo, branch, p)
			if err == nil {
				results[i] = content
			}
		}(i, p)
	}
	wg.Wait()

	for i, p := range staticManifestPaths {
		if strings.TrimSpace(results[i]) == "" {
			continue
		}
		return domain.ResolvedDocument{
			FileLabel:    path.Base(p),
			Content:      results[i],
			SourcePath:   p,
			SourceBranch: branch,
			Status:       domain.ResolveFound,
		}, true
	}
	return domain.ResolvedDocument{}, false
}

func (r *Resolver) allowed(ctx context.Context, url string) bool {
	if r.robots == nil {
		return true
	}
	return r.robots.Allowed(ctx, url)
}
