package services

import (
	"context"
	"strings"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driven"
	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driving"
	"github.com/gitdocs-ai/gitdocs/internal/logger"
)

// Tool names exposed by every handler.
const (
	ToolFetchDocumentation  = "fetch_documentation"
	ToolSearchDocumentation = "search_documentation"
)

// RepositoryHandler adapts the documentation pipeline for a specific
// repository. Most repositories use the generic handler; a few get
// thin variants that pin known documentation locations.
type RepositoryHandler interface {
	// Tools lists the tool names this handler serves.
	Tools() []string

	// FetchDocumentation returns the repository's documentation.
	FetchDocumentation(ctx context.Context, id domain.RepositoryIdentity) (domain.ResolvedDocument, error)

	// SearchRepositoryDocumentation returns ranked passages.
	SearchRepositoryDocumentation(ctx context.Context, id domain.RepositoryIdentity, query string, limit int) ([]domain.ScoredChunk, error)
}

// HandlerRegistry selects a handler per repository identity, once per
// request. A strategy table, not an inheritance tree.
type HandlerRegistry struct {
	byRepo  map[string]RepositoryHandler
	generic RepositoryHandler
}

// NewHandlerRegistry builds the registry with the built-in special
// cases registered.
func NewHandlerRegistry(docs driving.DocumentationService, fetcher driven.SourceFetcher) *HandlerRegistry {
	generic := &genericHandler{docs: docs}
	return &HandlerRegistry{
		generic: generic,
		byRepo: map[string]RepositoryHandler{
			"mrdoob/three.js": &pinnedDocHandler{
				docs:    docs,
				fetcher: fetcher,
				path:    "docs/llms.txt",
				label:   "llms.txt",
			},
			"remix-run/react-router": &pinnedDocHandler{
				docs:    docs,
				fetcher: fetcher,
				path:    "docs/README.md",
				label:   "README.md",
			},
		},
	}
}

// For returns the handler for the identity.
func (r *HandlerRegistry) For(id domain.RepositoryIdentity) RepositoryHandler {
	if h, ok := r.byRepo[strings.ToLower(id.String())]; ok {
		return h
	}
	return r.generic
}

// genericHandler delegates straight to the documentation service.
type genericHandler struct {
	docs driving.DocumentationService
}

func (h *genericHandler) Tools() []string {
	return []string{ToolFetchDocumentation, ToolSearchDocumentation}
}

func (h *genericHandler) FetchDocumentation(
	ctx context.Context, id domain.RepositoryIdentity,
) (domain.ResolvedDocument, error) {
	return h.docs.Resolve(ctx, id)
}

func (h *genericHandler) SearchRepositoryDocumentation(
	ctx context.Context, id domain.RepositoryIdentity, query string, limit int,
) ([]domain.ScoredChunk, error) {
	return h.docs.Search(ctx, id, query, limit)
}

// pinnedDocHandler tries a known documentation path first and falls
// back to the generic pipeline when it is missing.
type pinnedDocHandler struct {
	docs    driving.DocumentationService
	fetcher driven.SourceFetcher
	path    string
	label   string
}

func (h *pinnedDocHandler) Tools() []string {
	return []string{ToolFetchDocumentation, ToolSearchDocumentation}
}

func (h *pinnedDocHandler) FetchDocumentation(
	ctx context.Context, id domain.RepositoryIdentity,
) (domain.ResolvedDocument, error) {
	if h.fetcher != nil {
		branch := h.fetcher.DefaultBranch(ctx, id.Owner, id.Repo)
		if content, err := h.fetcher.RawFile(ctx, id.Owner, id.Repo, branch, h.path); err == nil && strings.TrimSpace(content) != "" {
			return domain.ResolvedDocument{
				FileLabel:    h.label,
				Content:      content,
				SourcePath:   h.path,
				SourceBranch: branch,
				Status:       domain.ResolveFound,
			}, nil
		}
		logger.Debug("handler: pinned path %s missing for %s, delegating", h.path, id)
	}
	return h.docs.Resolve(ctx, id)
}

func (h *pinnedDocHandler) SearchRepositoryDocumentation(
	ctx context.Context, id domain.RepositoryIdentity, query string, limit int,
) ([]domain.ScoredChunk, error) {
	return h.docs.Search(ctx, id, query, limit)
}
