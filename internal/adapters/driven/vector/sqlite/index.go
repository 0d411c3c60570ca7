// Package sqlite persists the vector index in a single SQLite file so
// indexed repositories survive restarts. Candidate filtering happens in
// SQL; similarity scoring happens in Go over the filtered rows.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/gitdocs-ai/gitdocs/internal/core/ports/driven"
)

// Ensure Index implements the port.
var _ driven.VectorIndex = (*Index)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS vectors (
	id            TEXT PRIMARY KEY,
	namespace     TEXT NOT NULL,
	chunk_text    TEXT NOT NULL,
	owner         TEXT NOT NULL DEFAULT '',
	repo          TEXT NOT NULL DEFAULT '',
	chunk_index   INTEGER NOT NULL DEFAULT 0,
	created_at_ms INTEGER NOT NULL,
	embedding     BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_vectors_namespace ON vectors(namespace, created_at_ms);
`

// Index is a file-backed vector index.
type Index struct {
	db   *sql.DB
	path string
}

// NewIndex opens (or creates) the index database at path. An empty path
// defaults to ~/.gitdocs/data/index.db.
func NewIndex(path string) (*Index, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".gitdocs", "data", "index.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Index{db: db, path: path}, nil
}

// Path returns the database file path.
func (ix *Index) Path() string { return ix.path }

// Query returns up to TopK matches from the namespace by cosine
// similarity. The NewerThan cutoff is applied in SQL so stale rows
// never reach the scoring loop.
func (ix *Index) Query(ctx context.Context, embedding []float32, q driven.VectorQuery) ([]driven.VectorMatch, error) {
	query := `
		SELECT id, chunk_text, owner, repo, chunk_index, created_at_ms, embedding
		FROM vectors WHERE namespace = ?`
	args := []any{q.Namespace}
	if !q.NewerThan.IsZero() {
		query += " AND created_at_ms >= ?"
		args = append(args, q.NewerThan.UnixMilli())
	}
	query += " ORDER BY rowid"

	rows, err := ix.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var matches []driven.VectorMatch
	for rows.Next() {
		var (
			m    driven.VectorMatch
			blob []byte
		)
		if err := rows.Scan(&m.ID, &m.Metadata.ChunkText, &m.Metadata.Owner, &m.Metadata.Repo,
			&m.Metadata.ChunkIndex, &m.Metadata.CreatedAtMillis, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector: %w", err)
		}
		m.Score = cosineSimilarity(embedding, bytesToFloat32Slice(blob))
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if q.TopK > 0 && len(matches) > q.TopK {
		matches = matches[:q.TopK]
	}
	return matches, nil
}

// Upsert writes vectors in a single transaction.
func (ix *Index) Upsert(ctx context.Context, vectors []driven.Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (id, namespace, chunk_text, owner, repo, chunk_index, created_at_ms, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			namespace = excluded.namespace,
			chunk_text = excluded.chunk_text,
			owner = excluded.owner,
			repo = excluded.repo,
			chunk_index = excluded.chunk_index,
			created_at_ms = excluded.created_at_ms,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, v := range vectors {
		if _, err := stmt.ExecContext(ctx, v.ID, v.Namespace, v.Metadata.ChunkText,
			v.Metadata.Owner, v.Metadata.Repo, v.Metadata.ChunkIndex,
			v.Metadata.CreatedAtMillis, float32SliceToBytes(v.Values)); err != nil {
			return fmt.Errorf("saving vector: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteByIDs removes the given rows.
func (ix *Index) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	if _, err := ix.db.ExecContext(ctx,
		"DELETE FROM vectors WHERE id IN ("+placeholders+")", args...); err != nil {
		return fmt.Errorf("deleting vectors: %w", err)
	}
	return nil
}

// Close closes the database.
func (ix *Index) Close() error { return ix.db.Close() }

// float32SliceToBytes packs floats little-endian for BLOB storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice is the inverse of float32SliceToBytes.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

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
