package httpstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
)

func TestGetReturnsObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/acme/widget/llms.txt" {
			_, _ = w.Write([]byte("# Widget\n\nManifest."))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	store, err := NewStore(server.URL)
	require.NoError(t, err)

	body, err := store.Get(context.Background(), "acme/widget/llms.txt")
	require.NoError(t, err)
	assert.Equal(t, "# Widget\n\nManifest.", string(body))
}

func TestGetMissingObjectIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	store, err := NewStore(server.URL)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "nope/llms.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetServerErrorIsNotNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	store, err := NewStore(server.URL)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "key")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestNewStoreRequiresBaseURL(t *testing.T) {
	_, err := NewStore("  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
