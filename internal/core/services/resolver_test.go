package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
)

func repoIdentity() domain.RepositoryIdentity {
	return domain.RepositoryIdentity{Owner: "acme", Repo: "widget", Kind: domain.URLKindRepository}
}

func pagesIdentity() domain.RepositoryIdentity {
	return domain.RepositoryIdentity{Owner: "acme", Kind: domain.URLKindSubdomain}
}

type resolverFixture struct {
	fetcher  *mockFetcher
	searcher *mockSearcher
	store    *mockStore
	robots   *mockRobots
	tasks    *mockTasks
	resolver *Resolver
}

func newResolverFixture() *resolverFixture {
	f := &resolverFixture{
		fetcher:  newMockFetcher(),
		searcher: &mockSearcher{},
		store:    &mockStore{blobs: make(map[string][]byte)},
		robots:   &mockRobots{disallowed: make(map[string]bool)},
		tasks:    &mockTasks{},
	}
	f.resolver = NewResolver(f.fetcher, f.searcher, f.store, f.robots, mockHTML{}, f.tasks)
	return f
}

func TestResolveStaticPathPriorityOrder(t *testing.T) {
	f := newResolverFixture()
	// Lower-priority path also present; declared order must still win.
	f.fetcher.files["acme/widget/main/llms.txt"] = "# Widget\n\nManifest."
	f.fetcher.files["acme/widget/main/docs/llms.txt"] = "# Widget docs\n\nOther manifest."

	doc, err := f.resolver.Resolve(context.Background(), repoIdentity())
	require.NoError(t, err)

	assert.Equal(t, domain.ResolveFound, doc.Status)
	assert.Equal(t, "llms.txt", doc.SourcePath)
	assert.Equal(t, "# Widget\n\nManifest.", doc.Content)
	assert.Equal(t, "main", doc.SourceBranch)

	// Later strategies never ran.
	assert.Zero(t, f.searcher.findFileCalls)
	assert.Zero(t, f.searcher.readmeCalls)
	assert.Zero(t, f.store.getCalls)
}

func TestResolveFallsBackToCodeSearch(t *testing.T) {
	f := newResolverFixture()
	f.searcher.llmsPath = "website/llms.txt"
	f.searcher.llmsContent = "# Widget\n\nFound by search."

	doc, err := f.resolver.Resolve(context.Background(), repoIdentity())
	require.NoError(t, err)

	assert.True(t, doc.Found())
	assert.Equal(t, "website/llms.txt", doc.SourcePath)
	assert.Equal(t, 1, f.searcher.findFileCalls)
	assert.Zero(t, f.store.getCalls)
	assert.Zero(t, f.searcher.readmeCalls)
}

func TestResolveFallsBackToPreGeneratedStore(t *testing.T) {
	f := newResolverFixture()
	f.store.blobs["acme/widget/llms.txt"] = []byte("# Widget\n\nPre-generated.")

	doc, err := f.resolver.Resolve(context.Background(), repoIdentity())
	require.NoError(t, err)

	assert.True(t, doc.Found())
	assert.Equal(t, "llms.txt (pre-generated)", doc.FileLabel)
	assert.Equal(t, "# Widget\n\nPre-generated.", doc.Content)
	assert.Equal(t, 1, f.searcher.findFileCalls)
	assert.Zero(t, f.searcher.readmeCalls)
}

func TestResolveFallsBackToReadme(t *testing.T) {
	f := newResolverFixture()
	f.searcher.readmePath = "README.md"
	f.searcher.readmeContent = "# Widget\n\nThe readme."

	doc, err := f.resolver.Resolve(context.Background(), repoIdentity())
	require.NoError(t, err)

	assert.True(t, doc.Found())
	assert.Equal(t, "README.md", doc.FileLabel)
	assert.Equal(t, 1, f.searcher.findFileCalls)
	assert.Equal(t, 1, f.searcher.readmeCalls)
}

func TestResolveNotFoundIsTerminalValue(t *testing.T) {
	f := newResolverFixture()

	doc, err := f.resolver.Resolve(context.Background(), repoIdentity())
	require.NoError(t, err)

	assert.Equal(t, domain.ResolveNotFound, doc.Status)
	assert.Equal(t, domain.NoDocsMessage, doc.Content)
	assert.False(t, doc.Found())
	assert.Empty(t, f.tasks.names)
}

func TestResolveCachesOutcome(t *testing.T) {
	f := newResolverFixture()
	f.fetcher.files["acme/widget/main/llms.txt"] = "# Widget\n\nManifest."

	_, err := f.resolver.Resolve(context.Background(), repoIdentity())
	require.NoError(t, err)
	fetches := f.fetcher.rawCalls()

	doc, err := f.resolver.Resolve(context.Background(), repoIdentity())
	require.NoError(t, err)

	assert.True(t, doc.Found())
	assert.Equal(t, fetches, f.fetcher.rawCalls(), "cached resolve must not refetch")
}

func TestResolveInvalidIdentity(t *testing.T) {
	f := newResolverFixture()

	_, err := f.resolver.Resolve(context.Background(), domain.RepositoryIdentity{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResolveEnqueuesProcessingOnSuccess(t *testing.T) {
	f := newResolverFixture()
	f.fetcher.files["acme/widget/main/llms.txt"] = "# Widget\n\nManifest."

	var got domain.ResolvedDocument
	f.resolver.OnResolved = func(_ context.Context, _ domain.RepositoryIdentity, doc domain.ResolvedDocument) {
		got = doc
	}
	f.tasks.run = true

	_, err := f.resolver.Resolve(context.Background(), repoIdentity())
	require.NoError(t, err)

	require.Equal(t, []string{"process-documentation"}, f.tasks.names)
	assert.Equal(t, "# Widget\n\nManifest.", got.Content)
}

func TestResolveSubdomainLlmsManifest(t *testing.T) {
	f := newResolverFixture()
	f.fetcher.pages["https://acme.github.io/llms.txt"] = "# Site\n\nManifest."

	doc, err := f.resolver.Resolve(context.Background(), pagesIdentity())
	require.NoError(t, err)

	assert.True(t, doc.Found())
	assert.Equal(t, "llms.txt", doc.FileLabel)
}

func TestResolveSubdomainLandingPageConverted(t *testing.T) {
	f := newResolverFixture()
	f.fetcher.pages["https://acme.github.io/"] = "<h1>Site</h1>"

	doc, err := f.resolver.Resolve(context.Background(), pagesIdentity())
	require.NoError(t, err)

	assert.True(t, doc.Found())
	assert.Equal(t, "landing page (converted)", doc.FileLabel)
	assert.Equal(t, "converted: <h1>Site</h1>", doc.Content)
}

func TestResolveSubdomainRobotsBlockedManifestIsHardStop(t *testing.T) {
	f := newResolverFixture()
	f.robots.disallowed["https://acme.github.io/llms.txt"] = true
	f.fetcher.pages["https://acme.github.io/"] = "<h1>Site</h1>"

	doc, err := f.resolver.Resolve(context.Background(), pagesIdentity())
	require.NoError(t, err)

	assert.Equal(t, domain.ResolveRobotsRestricted, doc.Status)
	assert.Empty(t, f.fetcher.pageReqs, "no page may be fetched after a disallowed manifest")
}

func TestResolveSubdomainBlockedLandingStillTriesReadme(t *testing.T) {
	f := newResolverFixture()
	f.robots.disallowed["https://acme.github.io/"] = true
	f.fetcher.files["acme/acme.github.io/main/README.md"] = "# Site\n\nReadme fallback."

	doc, err := f.resolver.Resolve(context.Background(), pagesIdentity())
	require.NoError(t, err)

	assert.True(t, doc.Found())
	assert.Equal(t, "README.md", doc.FileLabel)
	assert.Equal(t, "# Site\n\nReadme fallback.", doc.Content)
}

func TestResolveSubdomainAllBlockedReportsRobots(t *testing.T) {
	f := newResolverFixture()
	f.robots.disallowed["https://acme.github.io/"] = true

	doc, err := f.resolver.Resolve(context.Background(), pagesIdentity())
	require.NoError(t, err)

	// A robots-caused dead end reports the restriction, not a plain miss.
	assert.Equal(t, domain.ResolveRobotsRestricted, doc.Status)
	assert.Equal(t, domain.RobotsRestrictedMessage, doc.Content)
}

func TestResolveSubdomainProjectSitePath(t *testing.T) {
	f := newResolverFixture()
	id := domain.RepositoryIdentity{Owner: "acme", Repo: "widget", Kind: domain.URLKindSubdomain}
	f.fetcher.pages["https://acme.github.io/widget/llms.txt"] = "# Widget site\n\nManifest."

	doc, err := f.resolver.Resolve(context.Background(), id)
	require.NoError(t, err)

	assert.True(t, doc.Found())
	assert.Equal(t, "llms.txt", doc.FileLabel)
}
