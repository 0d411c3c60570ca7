package mcp

import (
	"context"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
)

// mockDocsService implements driving.DocumentationService.
type mockDocsService struct {
	doc     domain.ResolvedDocument
	results []domain.ScoredChunk
	err     error

	lastID    domain.RepositoryIdentity
	lastQuery string
	lastLimit int
}

func (m *mockDocsService) Resolve(_ context.Context, id domain.RepositoryIdentity) (domain.ResolvedDocument, error) {
	m.lastID = id
	return m.doc, m.err
}

func (m *mockDocsService) Search(
	_ context.Context, id domain.RepositoryIdentity, query string, limit int,
) ([]domain.ScoredChunk, error) {
	m.lastID = id
	m.lastQuery = query
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockDocsService) Index(
	_ context.Context, _ domain.RepositoryIdentity, _ domain.ResolvedDocument,
) (int, error) {
	return 0, m.err
}
