package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/filingrag/filingrag/internal/model"
)

func TestNewOpenAIEmbedder_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIEmbedder(model.EmbedConfig{}); err == nil {
		t.Fatal("Expected error without API key")
	}
}

func TestNewOpenAIEmbedder_Defaults(t *testing.T) {
	e, err := NewOpenAIEmbedder(model.EmbedConfig{APIKey: "k"})
	if err != nil {
		t.Fatalf("Failed to create embedder: %v", err)
	}
	if e.Dimension() != 1536 {
		t.Errorf("Expected default dimension 1536, got %d", e.Dimension())
	}
}

func TestOpenAIEmbedder_EmbedBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("Expected path /embeddings, got %s", r.URL.Path)
		}

		var req openai.EmbeddingRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		// Return vectors out of order; callers must place them by index.
		resp := openai.EmbeddingResponse{
			Data: []openai.Embedding{
				{Index: 1, Embedding: []float32{0.4, 0.5}},
				{Index: 0, Embedding: []float32{0.1, 0.2}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	e, err := NewOpenAIEmbedder(model.EmbedConfig{APIKey: "k", BaseURL: server.URL, Dimension: 2})
	if err != nil {
		t.Fatalf("Failed to create embedder: %v", err)
	}

	vectors, err := e.EmbedBatch(context.Background(), []string{"first chunk", "second chunk"})
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("Expected 2 vectors, got %d", len(vectors))
	}
	if vectors[0][0] != 0.1 || vectors[1][0] != 0.4 {
		t.Errorf("Expected vectors reordered by index, got %v", vectors)
	}
}

func TestOpenAIEmbedder_EmbedBatch_Empty(t *testing.T) {
	e, err := NewOpenAIEmbedder(model.EmbedConfig{APIKey: "k"})
	if err != nil {
		t.Fatalf("Failed to create embedder: %v", err)
	}
	vectors, err := e.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error for empty input, got %v", err)
	}
	if vectors != nil {
		t.Errorf("Expected nil vectors for empty input, got %v", vectors)
	}
}

func TestOpenAIEmbedder_EmbedBatch_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.EmbeddingResponse{
			Data: []openai.Embedding{{Index: 0, Embedding: []float32{0.1}}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	e, err := NewOpenAIEmbedder(model.EmbedConfig{APIKey: "k", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create embedder: %v", err)
	}

	if _, err := e.EmbedBatch(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("Expected error on embedding count mismatch")
	}
}
