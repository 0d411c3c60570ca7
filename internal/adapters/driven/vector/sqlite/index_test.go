package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driven"
)

func testIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := NewIndex(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func vector(id, namespace string, values []float32, createdAt time.Time) driven.Vector {
	return driven.Vector{
		ID:        id,
		Values:    values,
		Namespace: namespace,
		Metadata: driven.VectorMetadata{
			ChunkText:       "chunk " + id,
			Owner:           "acme",
			Repo:            "widget",
			CreatedAtMillis: createdAt.UnixMilli(),
		},
	}
}

func TestUpsertAndQueryRoundTrip(t *testing.T) {
	ix := testIndex(t)
	now := time.Now()
	require.NoError(t, ix.Upsert(context.Background(), []driven.Vector{
		vector("aligned", "ns", []float32{1, 0}, now),
		vector("orthogonal", "ns", []float32{0, 1}, now),
	}))

	matches, err := ix.Query(context.Background(), []float32{1, 0}, driven.VectorQuery{TopK: 10, Namespace: "ns"})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "aligned", matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	assert.Equal(t, "chunk aligned", matches[0].Metadata.ChunkText)
	assert.Equal(t, "acme", matches[0].Metadata.Owner)
}

func TestQueryNamespaceIsolation(t *testing.T) {
	ix := testIndex(t)
	now := time.Now()
	require.NoError(t, ix.Upsert(context.Background(), []driven.Vector{
		vector("a", "acme:widget", []float32{1, 0}, now),
		vector("b", "other:repo", []float32{1, 0}, now),
	}))

	matches, err := ix.Query(context.Background(), []float32{1, 0}, driven.VectorQuery{TopK: 10, Namespace: "acme:widget"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)
}

func TestQueryNewerThanCutoff(t *testing.T) {
	ix := testIndex(t)
	require.NoError(t, ix.Upsert(context.Background(), []driven.Vector{
		vector("fresh", "ns", []float32{1, 0}, time.Now()),
		vector("stale", "ns", []float32{1, 0}, time.Now().Add(-48*time.Hour)),
	}))

	matches, err := ix.Query(context.Background(), []float32{1, 0}, driven.VectorQuery{
		TopK:      10,
		Namespace: "ns",
		NewerThan: time.Now().Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "fresh", matches[0].ID)
}

func TestUpsertConflictReplaces(t *testing.T) {
	ix := testIndex(t)
	now := time.Now()
	require.NoError(t, ix.Upsert(context.Background(), []driven.Vector{vector("a", "ns", []float32{1, 0}, now)}))
	require.NoError(t, ix.Upsert(context.Background(), []driven.Vector{vector("a", "ns", []float32{0, 1}, now)}))

	matches, err := ix.Query(context.Background(), []float32{0, 1}, driven.VectorQuery{TopK: 10, Namespace: "ns"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
}

func TestDeleteByIDs(t *testing.T) {
	ix := testIndex(t)
	now := time.Now()
	require.NoError(t, ix.Upsert(context.Background(), []driven.Vector{
		vector("a", "ns", []float32{1, 0}, now),
		vector("b", "ns", []float32{0, 1}, now),
	}))

	require.NoError(t, ix.DeleteByIDs(context.Background(), []string{"a"}))

	matches, err := ix.Query(context.Background(), []float32{1, 1}, driven.VectorQuery{TopK: 10, Namespace: "ns"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "b", matches[0].ID)
}

func TestFloat32BlobCodec(t *testing.T) {
	in := []float32{0, -1.5, 3.25, 1e-8}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

func TestIndexSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	ix, err := NewIndex(path)
	require.NoError(t, err)
	require.NoError(t, ix.Upsert(context.Background(), []driven.Vector{vector("a", "ns", []float32{1, 0}, time.Now())}))
	require.NoError(t, ix.Close())

	reopened, err := NewIndex(path)
	require.NoError(t, err)
	defer reopened.Close()

	matches, err := reopened.Query(context.Background(), []float32{1, 0}, driven.VectorQuery{TopK: 1, Namespace: "ns"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
}
