// Package embed computes fixed-dimensionality vector embeddings for text.
package embed

import "context"

// Embedder turns text into embedding vectors. The same embedder must serve
// both indexing and query time; vectors from different models are not
// comparable.
type Embedder interface {
	// EmbedBatch embeds all texts in one call, preserving input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the vector dimensionality the model produces.
	Dimension() int
}
