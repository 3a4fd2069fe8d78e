package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/roelfdiedericks/llmcli/internal/llm"
	. "github.com/roelfdiedericks/llmcli/internal/logging"
)

const mistralDefaultDescription = "Mistral model"

// MistralFetcher lists models from Mistral's /v1/models endpoint.
type MistralFetcher struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewMistralFetcher returns a fetcher for the Mistral-direct catalog.
func NewMistralFetcher(baseURL, apiKey string, timeout time.Duration) *MistralFetcher {
	if baseURL == "" {
		baseURL = llm.MistralBaseURL
	}
	return &MistralFetcher{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch returns chat-capable models with their remote ids as-is.
func (f *MistralFetcher) Fetch(ctx context.Context) ([]Model, error) {
	key := Key{Mistral, Direct}

	entries, err := listModels(ctx, f.client, key, f.baseURL, f.apiKey)
	if err != nil {
		return nil, err
	}

	models := make([]Model, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		// embedding and OCR models can't take a chat turn
		if e.Capabilities != nil && e.Capabilities.CompletionChat != nil && !*e.Capabilities.CompletionChat {
			L_trace("catalog: skipping non-chat mistral model", "id", e.ID)
			continue
		}
		name := e.Name
		if name == "" {
			name = e.ID
		}
		desc := e.Description
		if desc == "" {
			desc = mistralDefaultDescription
		}
		models = append(models, Model{ID: e.ID, Name: name, Description: desc})
	}

	return normalize(key, models), nil
}
