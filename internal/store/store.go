// Package store persists embedded chunks in a named vector collection and
// serves nearest-neighbor queries over them.
package store

import (
	"context"
	"fmt"

	"github.com/filingrag/filingrag/internal/model"
)

// IndexedChunk is the persisted unit: a unique id, the raw chunk text, its
// embedding vector, and the metadata mapping inherited from the parent
// document plus chunk_index and source_doc.
type IndexedChunk struct {
	ID       string
	Text     string
	Vector   []float32
	Metadata map[string]any
}

// SearchResult is one retrieved chunk with its similarity score.
type SearchResult struct {
	ID       string
	Text     string
	Score    float32
	Metadata map[string]any
}

// VectorStore is the vector collection contract. Entries are write-once:
// there is no update or delete path for individual chunks, only Drop for the
// whole collection.
type VectorStore interface {
	// EnsureCollection creates the collection for vectors of the given
	// dimensionality if it does not exist yet.
	EnsureCollection(ctx context.Context, dimension int) error

	// Upsert persists a batch of chunks.
	Upsert(ctx context.Context, chunks []IndexedChunk) error

	// Search returns the topK nearest chunks to the query vector. An
	// empty collection yields zero results, not an error.
	Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)

	// Count returns the number of persisted chunks.
	Count(ctx context.Context) (int64, error)

	// Drop removes the whole collection.
	Drop(ctx context.Context) error

	// Close releases the connection.
	Close(ctx context.Context) error
}

// Open constructs the configured backend.
func Open(ctx context.Context, cfg model.StoreConfig) (VectorStore, error) {
	switch cfg.Backend {
	case "", "milvus":
		return NewMilvusStore(ctx, cfg)
	case "memory":
		return NewMemoryStore(cfg.Collection), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s (supported: milvus, memory)", cfg.Backend)
	}
}

// metaStringFields are the varchar metadata columns every entry carries.
var metaStringFields = []string{
	"ticker",
	"filing_type",
	"filing_date",
	"accession_number",
	"company_name",
	"section",
	"source_doc",
}

// metaIntFields are the integer metadata columns.
var metaIntFields = []string{
	"cik",
	"chunk_index",
}

func metaString(meta map[string]any, key string) string {
	if v, ok := meta[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func metaInt(meta map[string]any, key string) int64 {
	switch v := meta[key].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}
