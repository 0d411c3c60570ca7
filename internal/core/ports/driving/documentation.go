package driving

import (
	"context"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
)

// DocumentationService is the primary inbound port: resolve, search and
// index repository documentation.
type DocumentationService interface {
	// Resolve returns the document representing "the docs" for the
	// repository, or a terminal not-found / robots-restricted document.
	// It never returns an error for missing documentation.
	Resolve(ctx context.Context, id domain.RepositoryIdentity) (domain.ResolvedDocument, error)

	// Search returns the top passages for a query within the
	// repository's namespace. When the repository has not been indexed
	// yet it kicks off indexing in the background and returns the full
	// document as a fallback result.
	Search(ctx context.Context, id domain.RepositoryIdentity, query string, limit int) ([]domain.ScoredChunk, error)

	// Index (re)populates the vector index for the repository from the
	// given document and returns the number of vectors stored.
	Index(ctx context.Context, id domain.RepositoryIdentity, doc domain.ResolvedDocument) (int, error)
}
