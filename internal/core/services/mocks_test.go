package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockFetcher implements driven.SourceFetcher with canned content and
// call counting. Safe for the resolver's concurrent static-path probe.
type mockFetcher struct {
	mu          sync.Mutex
	files       map[string]string // "owner/repo/branch/path" -> content
	pages       map[string]string // url -> body
	branch      string
	rawReqs     []string
	pageReqs    []string
	branchCalls int
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		files:  make(map[string]string),
		pages:  make(map[string]string),
		branch: "main",
	}
}

func (m *mockFetcher) RawFile(_ context.Context, owner, repo, branch, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := owner + "/" + repo + "/" + branch + "/" + path
	m.rawReqs = append(m.rawReqs, key)
	if c, ok := m.files[key]; ok {
		return c, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockFetcher) Page(_ context.Context, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageReqs = append(m.pageReqs, url)
	if c, ok := m.pages[url]; ok {
		return c, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockFetcher) DefaultBranch(_ context.Context, _, _ string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.branchCalls++
	return m.branch
}

func (m *mockFetcher) rawCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rawReqs)
}

// mockSearcher implements driven.CodeSearcher.
type mockSearcher struct {
	llmsPath      string
	llmsContent   string
	readmePath    string
	readmeContent string
	findFileCalls int
	readmeCalls   int
}

func (m *mockSearcher) FindFile(_ context.Context, _, _, _ string) (string, string, error) {
	m.findFileCalls++
	if m.llmsContent == "" {
		return "", "", domain.ErrNotFound
	}
	return m.llmsPath, m.llmsContent, nil
}

func (m *mockSearcher) FindReadme(_ context.Context, _, _ string) (string, string, error) {
	m.readmeCalls++
	if m.readmeContent == "" {
		return "", "", domain.ErrNotFound
	}
	return m.readmePath, m.readmeContent, nil
}

// mockStore implements driven.ObjectStore.
type mockStore struct {
	blobs    map[string][]byte
	getCalls int
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	m.getCalls++
	if b, ok := m.blobs[key]; ok {
		return b, nil
	}
	return nil, domain.ErrNotFound
}

// mockRobots implements driven.RobotsPolicy via a disallow set.
type mockRobots struct {
	disallowed map[string]bool
}

func (m *mockRobots) Allowed(_ context.Context, url string) bool {
	return !m.disallowed[url]
}

// mockHTML implements driven.HTMLConverter.
type mockHTML struct{}

func (mockHTML) Convert(html string) (string, error) {
	return "converted: " + html, nil
}

// mockTasks implements driven.TaskQueue, running tasks synchronously
// so tests observe their effects deterministically.
type mockTasks struct {
	names []string
	run   bool
}

func (m *mockTasks) Submit(name string, fn func(ctx context.Context)) {
	m.names = append(m.names, name)
	if m.run {
		fn(context.Background())
	}
}

// mockEmbedder implements driven.EmbeddingService deterministically.
type mockEmbedder struct {
	dims     int
	embedErr error
}

func (m *mockEmbedder) vector() []float32 {
	v := make([]float32, m.Dimensions())
	v[0] = 1
	return v
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = m.vector()
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 4
}

func (m *mockEmbedder) ModelName() string { return "mock-embed" }
func (m *mockEmbedder) Close() error      { return nil }

// mockIndex is an in-memory driven.VectorIndex that returns namespace
// entries in insertion order with configurable scores.
type mockIndex struct {
	entries   []driven.Vector
	scores    map[string]float64 // by vector ID; default 0
	queryErr  error
	upsertErr error
	deleteErr error
}

func newMockIndex() *mockIndex {
	return &mockIndex{scores: make(map[string]float64)}
}

func (m *mockIndex) Query(_ context.Context, _ []float32, q driven.VectorQuery) ([]driven.VectorMatch, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	var matches []driven.VectorMatch
	for _, e := range m.entries {
		if e.Namespace != q.Namespace {
			continue
		}
		if !q.NewerThan.IsZero() {
			created := time.UnixMilli(e.Metadata.CreatedAtMillis)
			if created.Before(q.NewerThan) {
				continue
			}
		}
		matches = append(matches, driven.VectorMatch{ID: e.ID, Score: m.scores[e.ID], Metadata: e.Metadata})
	}
	// Highest similarity first, stable for equal scores.
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if q.TopK > 0 && len(matches) > q.TopK {
		matches = matches[:q.TopK]
	}
	return matches, nil
}

func (m *mockIndex) Upsert(_ context.Context, vectors []driven.Vector) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.entries = append(m.entries, vectors...)
	return nil
}

func (m *mockIndex) DeleteByIDs(_ context.Context, ids []string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var kept []driven.Vector
	for _, e := range m.entries {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

func (m *mockIndex) Close() error { return nil }

func (m *mockIndex) ids() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.ID
	}
	return out
}
