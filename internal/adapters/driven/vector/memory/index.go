// Package memory provides an in-process vector index. It brute-forces
// cosine similarity, which is fine at documentation scale (hundreds of
// chunks per namespace), and serves as the default when no index path
// is configured.
package memory

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driven"
)

// Ensure Index implements the port.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores vectors per namespace, guarded by a single lock.
type Index struct {
	mu      sync.RWMutex
	entries map[string][]driven.Vector // namespace -> vectors in insert order
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{entries: make(map[string][]driven.Vector)}
}

// Query returns up to TopK matches from the namespace ordered by cosine
// similarity, filtered by the NewerThan cutoff when set. Equal scores
// keep insertion order.
func (ix *Index) Query(_ context.Context, embedding []float32, q driven.VectorQuery) ([]driven.VectorMatch, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var matches []driven.VectorMatch
	for _, v := range ix.entries[q.Namespace] {
		if !q.NewerThan.IsZero() && time.UnixMilli(v.Metadata.CreatedAtMillis).Before(q.NewerThan) {
			continue
		}
		matches = append(matches, driven.VectorMatch{
			ID:       v.ID,
			Score:    cosineSimilarity(embedding, v.Values),
			Metadata: v.Metadata,
		})
	}

	// Insertion sort keeps ties stable without pulling in sort.Slice
	// allocation churn on the hot path.
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].Score > matches[j-1].Score; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}

	if q.TopK > 0 && len(matches) > q.TopK {
		matches = matches[:q.TopK]
	}
	return matches, nil
}

// Upsert appends vectors, replacing any existing entry with the same ID.
func (ix *Index) Upsert(_ context.Context, vectors []driven.Vector) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, v := range vectors {
		bucket := ix.entries[v.Namespace]
		replaced := false
		for i := range bucket {
			if bucket[i].ID == v.ID {
				bucket[i] = v
				replaced = true
				break
			}
		}
		if !replaced {
			bucket = append(bucket, v)
		}
		ix.entries[v.Namespace] = bucket
	}
	return nil
}

// DeleteByIDs removes the given IDs across all namespaces.
func (ix *Index) DeleteByIDs(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	for ns, bucket := range ix.entries {
		kept := bucket[:0]
		for _, v := range bucket {
			if !drop[v.ID] {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			delete(ix.entries, ns)
		} else {
			ix.entries[ns] = kept
		}
	}
	return nil
}

// Close releases nothing; present to satisfy the port.
func (ix *Index) Close() error { return nil }

// cosineSimilarity returns the cosine of the angle between a and b,
// zero when either vector is empty or all-zero.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
