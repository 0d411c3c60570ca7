// Package httpstore reads pre-generated documentation objects from an
// HTTP-fronted bucket (keys map straight onto URL paths).
package httpstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gitdocs-ai/gitdocs/internal/core/domain"
	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driven"
)

// Ensure Store implements the port.
var _ driven.ObjectStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultTimeout = 15 * time.Second

	// maxObjectSize guards against runaway downloads; llms.txt files
	// are small.
	maxObjectSize = 10 << 20
)

// Store fetches objects as GET baseURL/key.
type Store struct {
	client  *http.Client
	baseURL string
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) { s.client = c }
}

// NewStore creates a store rooted at baseURL.
func NewStore(baseURL string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("httpstore: %w: base URL is required", domain.ErrInvalidInput)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("httpstore: invalid base URL: %w", err)
	}

	s := &Store{
		client:  &http.Client{Timeout: DefaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get fetches the object at key. A missing object is domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/"+strings.TrimLeft(key, "/"), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("httpstore: create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpstore: get %s: %w", key, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("httpstore: %s: %w", key, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("httpstore: %s: unexpected status %d", key, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxObjectSize))
	if err != nil {
		return nil, fmt.Errorf("httpstore: read %s: %w", key, err)
	}
	return body, nil
}
