package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRobotsRestricted indicates a fetch was disallowed by robots.txt.
	// Must never be conflated with ErrNotFound.
	ErrRobotsRestricted = errors.New("restricted by robots.txt")

	// ErrRateLimited indicates the API rate limit was exceeded and the
	// retry budget is exhausted.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexUnavailable indicates the vector index is not configured.
	// Search degrades to returning the raw document.
	ErrIndexUnavailable = errors.New("vector index unavailable")
)
