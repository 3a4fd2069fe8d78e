// Package llm - client factory
package llm

import (
	"context"
	"fmt"
)

// Default chat endpoints for the OpenAI-compatible providers.
const (
	MistralBaseURL    = "https://api.mistral.ai/v1"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// Target says where the chat turn goes.
type Target struct {
	Provider string // "mistral" or "gemini"
	Proxied  bool   // through OpenRouter
	Model    string // id exactly as selected from the catalog
	APIKey   string
	BaseURL  string // empty = provider default
}

// NewClient dispatches to the right constructor for target.
// Proxied traffic always uses the OpenAI-compatible client, whichever the provider.
func NewClient(ctx context.Context, target Target, opts Options) (Client, error) {
	if target.Model == "" {
		return nil, fmt.Errorf("no model selected")
	}

	label := displayName(target.Provider)

	if target.Proxied {
		baseURL := target.BaseURL
		if baseURL == "" {
			baseURL = OpenRouterBaseURL
		}
		return NewOpenAIClient(label+" (OpenRouter)", baseURL, target.APIKey, target.Model, opts), nil
	}

	switch target.Provider {
	case "mistral":
		baseURL := target.BaseURL
		if baseURL == "" {
			baseURL = MistralBaseURL
		}
		return NewOpenAIClient(label, baseURL, target.APIKey, target.Model, opts), nil
	case "gemini":
		return NewGeminiClient(ctx, target.APIKey, target.BaseURL, target.Model, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", target.Provider)
	}
}

func displayName(provider string) string {
	switch provider {
	case "mistral":
		return "Mistral"
	case "gemini":
		return "Gemini"
	}
	return provider
}
