package driven

import "context"

// ObjectStore serves pre-generated documentation blobs, keyed
// "owner/repo/filename". It is the fallback source when nothing is
// discoverable in the repository itself.
type ObjectStore interface {
	// Get returns the blob for a key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
}
