package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gitdocs-ai/gitdocs/internal/chunker"
	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driven"
	"github.com/gitdocs-ai/gitdocs/internal/logger"
)

// MaxDeleteQuery is the most entries the backing index returns per
// query; re-index deletion is bounded by it.
const MaxDeleteQuery = 100

// Indexer (re)populates the vector index for a repository from a
// resolved document: best-effort delete of existing namespace entries,
// then chunk, embed and upsert.
type Indexer struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	now      func() time.Time
}

// NewIndexer creates an indexer.
func NewIndexer(embedder driven.EmbeddingService, index driven.VectorIndex) *Indexer {
	return &Indexer{embedder: embedder, index: index, now: time.Now}
}

// Index replaces the namespace's entries with chunks of the document
// and returns the number of vectors stored. Deletion failures are
// logged and swallowed - stale entries lingering is an accepted
// tradeoff - but embedding and upsert failures propagate: a half-built
// index should signal "retry later".
func (ix *Indexer) Index(
	ctx context.Context, id domain.RepositoryIdentity, doc domain.ResolvedDocument,
) (int, error) {
	if ix.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}
	if ix.index == nil {
		return 0, domain.ErrIndexUnavailable
	}
	if !doc.Found() {
		return 0, nil
	}

	ns := id.Namespace()
	logger.Section("Repository Indexing")
	logger.Debug("indexer: namespace=%s file=%s", ns, doc.FileLabel)

	ix.deleteExisting(ctx, ns)

	chunks := chunker.Chunk(doc.FileLabel, doc.Content)
	if len(chunks) == 0 {
		logger.Debug("indexer: no chunks produced for %s", ns)
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embed chunks: got %d embeddings for %d chunks", len(embeddings), len(chunks))
	}

	createdAt := ix.now().UnixMilli()
	vectors := make([]driven.Vector, len(chunks))
	for i, c := range chunks {
		vectors[i] = driven.Vector{
			ID:        uuid.New().String(),
			Values:    embeddings[i],
			Namespace: ns,
			Metadata: driven.VectorMetadata{
				ChunkText:       c.Text,
				Owner:           id.Owner,
				Repo:            id.Repo,
				ChunkIndex:      c.Index,
				CreatedAtMillis: createdAt,
			},
		}
	}

	if err := ix.index.Upsert(ctx, vectors); err != nil {
		return 0, fmt.Errorf("upsert vectors: %w", err)
	}

	logger.Info("indexer: stored %d vectors in %s", len(vectors), ns)
	return len(vectors), nil
}

// deleteExisting removes up to MaxDeleteQuery existing entries from
// the namespace. Best effort: failures log and indexing proceeds.
func (ix *Indexer) deleteExisting(ctx context.Context, namespace string) {
	probe := make([]float32, ix.embedder.Dimensions())
	matches, err := ix.index.Query(ctx, probe, driven.VectorQuery{
		TopK:      MaxDeleteQuery,
		Namespace: namespace,
	})
	if err != nil {
		logger.Warn("indexer: pre-delete query failed for %s: %v (proceeding)", namespace, err)
		return
	}
	if len(matches) == 0 {
		return
	}

	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	if err := ix.index.DeleteByIDs(ctx, ids); err != nil {
		logger.Warn("indexer: deleting %d stale entries in %s failed: %v (proceeding)", len(ids), namespace, err)
	}
}
