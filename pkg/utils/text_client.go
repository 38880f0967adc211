package utils

import (
	"context"
	"fmt"
	"strings"
)

// TextRequest is a single-turn generation request.
type TextRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
	// JSONOutput asks the provider for its native JSON mode when it has one.
	JSONOutput bool
}

type TextGenerationClientInterface interface {
	GenerateText(ctx context.Context, req TextRequest) (string, error)
	ModelID() string
}

// ProviderError wraps a failed call to a text-generation provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// TextClientConfig selects and configures a text-generation provider.
type TextClientConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// NewTextGenerationClient builds the client for cfg.Provider.
func NewTextGenerationClient(ctx context.Context, cfg TextClientConfig) (TextGenerationClientInterface, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAITextClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case "gemini":
		return NewGeminiTextClient(ctx, cfg.APIKey, cfg.Model)
	case "anthropic":
		return NewAnthropicTextClient(cfg.APIKey, cfg.Model)
	case "mock":
		return NewMockTextClient(), nil
	default:
		return nil, fmt.Errorf("unsupported text provider: %s", cfg.Provider)
	}
}
