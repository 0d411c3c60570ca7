package driven

import (
	"context"
	"time"
)

// VectorMetadata is stored alongside every vector and returned with
// query matches. ChunkText carries the original passage so results can
// be served without a separate document store round trip.
type VectorMetadata struct {
	ChunkText       string
	Owner           string
	Repo            string
	ChunkIndex      int
	CreatedAtMillis int64
}

// Vector is an entry to be upserted into the index.
type Vector struct {
	ID        string
	Values    []float32
	Namespace string
	Metadata  VectorMetadata
}

// VectorMatch is a similarity search result.
type VectorMatch struct {
	ID       string
	Score    float64
	Metadata VectorMetadata
}

// VectorQuery restricts a similarity query.
type VectorQuery struct {
	// TopK is the number of candidates to return.
	TopK int

	// Namespace restricts matches to one repository.
	Namespace string

	// NewerThan excludes entries created before this time. Zero means
	// no time filter.
	NewerThan time.Time
}

// VectorIndex provides namespaced vector storage and similarity search.
// Scores are cosine similarities in the index's native range.
type VectorIndex interface {
	// Query finds the nearest neighbours within a namespace.
	Query(ctx context.Context, embedding []float32, q VectorQuery) ([]VectorMatch, error)

	// Upsert inserts or replaces vectors.
	Upsert(ctx context.Context, vectors []Vector) error

	// DeleteByIDs removes vectors by id.
	DeleteByIDs(ctx context.Context, ids []string) error

	// Close releases resources.
	Close() error
}
