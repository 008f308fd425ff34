package llm

import (
	"context"
	"fmt"
)

// NewProvider creates a completion provider based on the configuration.
// An empty provider name disables answer composition and returns nil.
func NewProvider(ctx context.Context, config Config) (Provider, error) {
	switch config.Provider {
	case "gemini":
		return NewGeminiProvider(ctx, config)
	case "openai":
		return NewOpenAIProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", config.Provider)
	}
}
