package store

import (
	"context"
	"math"
	"testing"
)

func TestMemoryStore_SearchOrdersBySimilarity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("test")

	chunks := []IndexedChunk{
		{ID: "a", Text: "aligned", Vector: []float32{1, 0}},
		{ID: "b", Text: "orthogonal", Vector: []float32{0, 1}},
		{ID: "c", Text: "diagonal", Vector: []float32{1, 1}},
	}
	if err := s.Upsert(ctx, chunks); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	results, err := s.Search(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "c" || results[2].ID != "b" {
		t.Errorf("Unexpected order: %s, %s, %s", results[0].ID, results[1].ID, results[2].ID)
	}
	if math.Abs(float64(results[0].Score)-1.0) > 1e-6 {
		t.Errorf("Expected perfect alignment score 1.0, got %f", results[0].Score)
	}
}

func TestMemoryStore_SearchRespectsTopK(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("test")

	for i := 0; i < 10; i++ {
		err := s.Upsert(ctx, []IndexedChunk{{ID: string(rune('a' + i)), Vector: []float32{1, float32(i)}}})
		if err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	results, err := s.Search(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("Expected 5 results, got %d", len(results))
	}
}

func TestMemoryStore_EmptySearchYieldsNoResults(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("test")

	results, err := s.Search(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Expected no error on empty collection, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected zero results, got %d", len(results))
	}
}

func TestMemoryStore_CountAndDrop(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("test")

	_ = s.Upsert(ctx, []IndexedChunk{
		{ID: "a", Vector: []float32{1}},
		{ID: "b", Vector: []float32{2}},
	})

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected count 2, got %d", n)
	}

	if err := s.Drop(ctx); err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	n, _ = s.Count(ctx)
	if n != 0 {
		t.Errorf("Expected count 0 after drop, got %d", n)
	}
}

func TestCosine_EdgeCases(t *testing.T) {
	if got := cosine([]float32{1, 0}, []float32{1}); got != 0 {
		t.Errorf("Expected 0 for mismatched dimensions, got %f", got)
	}
	if got := cosine([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Errorf("Expected 0 for zero vector, got %f", got)
	}
	if got := cosine([]float32{1, 2}, []float32{-1, -2}); math.Abs(float64(got)+1.0) > 1e-6 {
		t.Errorf("Expected -1 for opposite vectors, got %f", got)
	}
}
