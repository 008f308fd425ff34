// Package llm abstracts the generative text completion services used for
// answer composition.
package llm

import (
	"context"

	"github.com/filingrag/filingrag/internal/model"
)

// Provider defines the interface for text completion providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete submits a fully rendered prompt and returns the raw text
	// response.
	Complete(ctx context.Context, prompt string) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds completion provider configuration
type Config struct {
	// Provider name: "gemini", "openai", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the hosted service
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Temperature for sampling
	Temperature float32

	// MaxTokens limits the response length
	MaxTokens int

	// Timeout for API requests
	Timeout int // seconds
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "gemini",
		Model:       "gemini-1.5-flash",
		Temperature: 0.2,
		MaxTokens:   1024,
		Timeout:     30,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}
}
