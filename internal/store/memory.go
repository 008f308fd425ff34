package store

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process VectorStore with cosine similarity. It backs
// tests and small local runs; nothing is persisted across processes.
type MemoryStore struct {
	mu         sync.RWMutex
	collection string
	chunks     []IndexedChunk
}

// NewMemoryStore creates an empty in-memory collection.
func NewMemoryStore(collection string) *MemoryStore {
	return &MemoryStore{collection: collection}
}

// EnsureCollection is a no-op for the in-memory backend.
func (s *MemoryStore) EnsureCollection(ctx context.Context, dimension int) error {
	return nil
}

// Upsert appends the chunks.
func (s *MemoryStore) Upsert(ctx context.Context, chunks []IndexedChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

// Search returns the topK stored chunks nearest to vector by cosine
// similarity.
func (s *MemoryStore) Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]SearchResult, 0, len(s.chunks))
	for _, ch := range s.chunks {
		results = append(results, SearchResult{
			ID:       ch.ID,
			Text:     ch.Text,
			Score:    cosine(vector, ch.Vector),
			Metadata: ch.Metadata,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Count returns the number of stored chunks.
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.chunks)), nil
}

// Drop discards all stored chunks.
func (s *MemoryStore) Drop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	return nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
