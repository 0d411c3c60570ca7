package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
	"github.com/gitdocs-ai/gitdocs/internal/core/services"
)

// mockDocs implements driving.DocumentationService for command tests.
type mockDocs struct {
	doc     domain.ResolvedDocument
	results []domain.ScoredChunk
	err     error
}

func (m *mockDocs) Resolve(_ context.Context, _ domain.RepositoryIdentity) (domain.ResolvedDocument, error) {
	return m.doc, m.err
}

func (m *mockDocs) Search(_ context.Context, _ domain.RepositoryIdentity, _ string, _ int) ([]domain.ScoredChunk, error) {
	return m.results, m.err
}

func (m *mockDocs) Index(_ context.Context, _ domain.RepositoryIdentity, _ domain.ResolvedDocument) (int, error) {
	return 0, m.err
}

// withMockServices swaps the wired services for the test's duration.
func withMockServices(t *testing.T, mock *mockDocs) {
	t.Helper()
	oldDocs, oldRegistry := docsService, registry
	docsService = mock
	registry = services.NewHandlerRegistry(mock, nil)
	t.Cleanup(func() {
		docsService, registry = oldDocs, oldRegistry
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd_Executes(t *testing.T) {
	withMockServices(t, &mockDocs{})

	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gitdocs version test-version-1.0.0")
}

func TestResolveCmd_PrintsDocument(t *testing.T) {
	withMockServices(t, &mockDocs{
		doc: domain.ResolvedDocument{
			FileLabel:    "llms.txt",
			Content:      "# Widget\n\nManifest.",
			SourcePath:   "llms.txt",
			SourceBranch: "main",
			Status:       domain.ResolveFound,
		},
	})

	out, err := execute(t, "resolve", "acme/widget")
	require.NoError(t, err)

	assert.Contains(t, out, "Repository: acme/widget")
	assert.Contains(t, out, "llms.txt@main")
	assert.Contains(t, out, "# Widget")
}

func TestResolveCmd_RejectsBadSlug(t *testing.T) {
	withMockServices(t, &mockDocs{})

	_, err := execute(t, "resolve", "not-a-slug")
	assert.Error(t, err)
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	withMockServices(t, &mockDocs{
		results: []domain.ScoredChunk{
			{Chunk: "## Install\n\nRun it.", CombinedScore: 0.9},
		},
	})

	out, err := execute(t, "search", "acme/widget", "install")
	require.NoError(t, err)

	assert.Contains(t, out, "## Install")
	assert.Contains(t, out, "0.900")
}

func TestSearchCmd_NoResults(t *testing.T) {
	withMockServices(t, &mockDocs{})

	out, err := execute(t, "search", "acme/widget", "anything")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}
