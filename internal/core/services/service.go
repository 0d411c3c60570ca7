package services

import (
	"context"
	"strings"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driven"
	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driving"
	"github.com/gitdocs-ai/gitdocs/internal/logger"
)

// Ensure DocumentationService implements the driving port.
var _ driving.DocumentationService = (*DocumentationService)(nil)

// IndexingFallbackNote prefixes the full-document fallback returned
// while a first search is still indexing in the background.
const IndexingFallbackNote = "Indexing is in progress; returning the full document as a fallback."

// DocumentationService orchestrates resolution, lazy indexing and
// ranked search. It is the single inbound surface for tool handlers.
type DocumentationService struct {
	resolver *Resolver
	ranker   *Ranker
	indexer  *Indexer
	tasks    driven.TaskQueue
}

// NewDocumentationService wires the pipeline together. Resolution
// events feed the indexer through the task queue.
func NewDocumentationService(
	resolver *Resolver, ranker *Ranker, indexer *Indexer, tasks driven.TaskQueue,
) *DocumentationService {
	s := &DocumentationService{
		resolver: resolver,
		ranker:   ranker,
		indexer:  indexer,
		tasks:    tasks,
	}
	resolver.OnResolved = func(ctx context.Context, id domain.RepositoryIdentity, doc domain.ResolvedDocument) {
		if _, err := s.Index(ctx, id, doc); err != nil {
			logger.Warn("background indexing of %s failed: %v", id, err)
		}
	}
	return s
}

// Resolve returns the documentation document for the identity.
func (s *DocumentationService) Resolve(
	ctx context.Context, id domain.RepositoryIdentity,
) (domain.ResolvedDocument, error) {
	return s.resolver.Resolve(ctx, id)
}

// Search returns ranked passages. When the namespace has no indexed
// vectors yet, it resolves the document, kicks off indexing in the
// background and returns the full document as a labelled fallback.
func (s *DocumentationService) Search(
	ctx context.Context, id domain.RepositoryIdentity, query string, limit int,
) ([]domain.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	results, err := s.ranker.Search(ctx, id, query, limit)
	if err != nil {
		logger.Warn("search %s: %v (degrading to fallback)", id, err)
	}
	if len(results) > 0 {
		return results, nil
	}

	// Index-on-first-search: nothing in the namespace (or no backend).
	doc, err := s.resolver.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doc.Found() {
		// Terminal outcome text is the payload; still not an error.
		return []domain.ScoredChunk{{Chunk: doc.Content}}, nil
	}

	if s.tasks != nil {
		s.tasks.Submit("index-on-first-search", func(ctx context.Context) {
			if _, err := s.Index(ctx, id, doc); err != nil {
				logger.Warn("lazy indexing of %s failed: %v", id, err)
			}
		})
	}

	fallback := IndexingFallbackNote + "\n\n" + strings.TrimSpace(doc.Content)
	return []domain.ScoredChunk{{Chunk: fallback}}, nil
}

// Index (re)populates the repository's namespace from the document.
func (s *DocumentationService) Index(
	ctx context.Context, id domain.RepositoryIdentity, doc domain.ResolvedDocument,
) (int, error) {
	return s.indexer.Index(ctx, id, doc)
}
