package mcp

import (
	"context"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
	"github.com/gitdocs-ai/gitdocs/internal/core/services"
)

// RepositoryInput names the repository a tool call targets. Either a
// full URL (github.com or a Pages site) or the owner/repo pair.
type RepositoryInput struct {
	URL   string `json:"url,omitempty" jsonschema:"repository or GitHub Pages URL, e.g. https://github.com/acme/widget"`
	Owner string `json:"owner,omitempty" jsonschema:"repository owner"`
	Repo  string `json:"repo,omitempty" jsonschema:"repository name"`
}

// FetchInput is the input schema for fetch_documentation.
type FetchInput struct {
	RepositoryInput
}

// FetchOutput is the output schema for fetch_documentation.
type FetchOutput struct {
	Repository string `json:"repository"`
	FileLabel  string `json:"file_label"`
	Status     string `json:"status"`
	SourcePath string `json:"source_path,omitempty"`
	Content    string `json:"content"`
}

// SearchInput is the input schema for search_documentation.
type SearchInput struct {
	RepositoryInput
	Query string `json:"query" jsonschema:"the documentation search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
}

// SearchOutput is the output schema for search_documentation.
type SearchOutput struct {
	Repository string         `json:"repository"`
	Results    []SearchResult `json:"results"`
	Count      int            `json:"count"`
}

// SearchResult is one ranked passage.
type SearchResult struct {
	Content      string  `json:"content"`
	Score        float64 `json:"score"`
	VectorScore  float64 `json:"vector_score"`
	KeywordScore float64 `json:"keyword_score"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        services.ToolFetchDocumentation,
		Description: "Fetch the documentation for a GitHub repository (llms.txt, README or Pages site)",
	}, s.handleFetch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        services.ToolSearchDocumentation,
		Description: "Search a GitHub repository's documentation and return the most relevant passages",
	}, s.handleSearch)
}

// handleFetch handles the fetch_documentation tool invocation.
func (s *Server) handleFetch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FetchInput,
) (*mcp.CallToolResult, FetchOutput, error) {
	id, err := identityFromInput(input.RepositoryInput)
	if err != nil {
		return nil, FetchOutput{}, err
	}

	doc, err := s.fetch(ctx, id)
	if err != nil {
		return nil, FetchOutput{}, err
	}

	return nil, FetchOutput{
		Repository: id.String(),
		FileLabel:  doc.FileLabel,
		Status:     string(doc.Status),
		SourcePath: doc.SourcePath,
		Content:    doc.Content,
	}, nil
}

// handleSearch handles the search_documentation tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	id, err := identityFromInput(input.RepositoryInput)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	results, err := s.search(ctx, id, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Repository: id.String(),
		Results:    make([]SearchResult, len(results)),
		Count:      len(results),
	}
	for i, r := range results {
		output.Results[i] = SearchResult{
			Content:      r.Chunk,
			Score:        r.CombinedScore,
			VectorScore:  r.VectorScore,
			KeywordScore: r.KeywordScore,
		}
	}
	return nil, output, nil
}

func (s *Server) fetch(ctx context.Context, id domain.RepositoryIdentity) (domain.ResolvedDocument, error) {
	if s.ports.Handlers != nil {
		return s.ports.Handlers.For(id).FetchDocumentation(ctx, id)
	}
	return s.ports.Docs.Resolve(ctx, id)
}

func (s *Server) search(
	ctx context.Context, id domain.RepositoryIdentity, query string, limit int,
) ([]domain.ScoredChunk, error) {
	if s.ports.Handlers != nil {
		return s.ports.Handlers.For(id).SearchRepositoryDocumentation(ctx, id, query, limit)
	}
	return s.ports.Docs.Search(ctx, id, query, limit)
}

// identityFromInput derives the repository identity, preferring the URL
// form so Pages subdomains keep their resolution semantics.
func identityFromInput(in RepositoryInput) (domain.RepositoryIdentity, error) {
	if strings.TrimSpace(in.URL) != "" {
		raw := in.URL
		if !strings.Contains(raw, "://") {
			raw = "https://" + raw
		}
		u, err := url.Parse(raw)
		if err != nil {
			return domain.RepositoryIdentity{}, domain.ErrInvalidInput
		}
		id := domain.ParseIdentity(u.Hostname(), u.Path)
		if id.Owner == "" {
			return domain.RepositoryIdentity{}, domain.ErrInvalidInput
		}
		return id, nil
	}

	if strings.TrimSpace(in.Owner) == "" || strings.TrimSpace(in.Repo) == "" {
		return domain.RepositoryIdentity{}, ErrNoRepository
	}
	return domain.RepositoryIdentity{
		Owner: strings.TrimSpace(in.Owner),
		Repo:  strings.TrimSpace(in.Repo),
		Kind:  domain.URLKindRepository,
	}, nil
}
