// Package rag implements the query-time path: similarity retrieval over the
// vector store and grounded answer composition.
package rag

import (
	"context"
	"fmt"

	"github.com/filingrag/filingrag/internal/embed"
	"github.com/filingrag/filingrag/internal/store"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// Retriever embeds a question with the same model used at index time and
// returns the nearest chunks.
type Retriever struct {
	embedder embed.Embedder
	store    store.VectorStore
	topK     int
}

// NewRetriever creates a retriever. topK <= 0 falls back to DefaultTopK.
func NewRetriever(embedder embed.Embedder, vs store.VectorStore, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder: embedder,
		store:    vs,
		topK:     topK,
	}
}

// Retrieve embeds the question and searches the store. An empty store yields
// an empty result set, not an error.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]store.SearchResult, error) {
	vectors, err := r.embedder.EmbedBatch(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 query vector, got %d", len(vectors))
	}

	results, err := r.store.Search(ctx, vectors[0], r.topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return results, nil
}
