package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/roelfdiedericks/llmcli/internal/llm"
	. "github.com/roelfdiedericks/llmcli/internal/logging"
)

// Fetcher produces the live catalog for one key.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Model, error)
}

// FetcherConfig carries credentials and endpoints for every variant.
// Only the fields used by the requested key need to be set.
type FetcherConfig struct {
	MistralAPIKey  string
	MistralBaseURL string
	GeminiAPIKey   string
	GeminiBaseURL  string // empty = SDK default
	ProxyAPIKey    string
	ProxyBaseURL   string
	Timeout        time.Duration

	// GeminiCandidates overrides the probe list; nil uses GeminiCandidates.
	GeminiCandidates []string
}

func (c FetcherConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return llm.DefaultTimeout
	}
	return c.Timeout
}

type fetcherBuilder func(ctx context.Context, cfg FetcherConfig) (Fetcher, error)

// builders is the dispatch table: one fetch strategy per catalog key.
var builders = map[Key]fetcherBuilder{
	{Mistral, Direct}: func(_ context.Context, cfg FetcherConfig) (Fetcher, error) {
		return NewMistralFetcher(cfg.MistralBaseURL, cfg.MistralAPIKey, cfg.timeout()), nil
	},
	{Gemini, Direct}: func(ctx context.Context, cfg FetcherConfig) (Fetcher, error) {
		prober, err := NewGenaiProber(ctx, cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.timeout())
		if err != nil {
			return nil, err
		}
		return NewGeminiFetcher(prober, cfg.GeminiCandidates), nil
	},
	{Mistral, Proxied}: func(_ context.Context, cfg FetcherConfig) (Fetcher, error) {
		return NewProxyFetcher(Mistral, cfg.ProxyBaseURL, cfg.ProxyAPIKey, cfg.timeout()), nil
	},
	{Gemini, Proxied}: func(_ context.Context, cfg FetcherConfig) (Fetcher, error) {
		return NewProxyFetcher(Gemini, cfg.ProxyBaseURL, cfg.ProxyAPIKey, cfg.timeout()), nil
	},
}

// NewFetcher builds the fetcher registered for key.
func NewFetcher(ctx context.Context, key Key, cfg FetcherConfig) (Fetcher, error) {
	build, ok := builders[key]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownKey, key)
	}
	return build(ctx, cfg)
}

// listResponse is the OpenAI-style {"data": [...]} envelope shared by the
// Mistral and OpenRouter listing endpoints.
type listResponse struct {
	Data []listEntry `json:"data"`
}

type listEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Capabilities *struct {
		CompletionChat *bool `json:"completion_chat"`
	} `json:"capabilities"`
}

// listModels issues an authenticated GET on <baseURL>/models and decodes the
// listing. Every failure is a *FetchError.
func listModels(ctx context.Context, client *http.Client, key Key, baseURL, apiKey string) ([]listEntry, error) {
	url := strings.TrimSuffix(baseURL, "/") + "/models"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Key: key, Op: "build request", Err: err}
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	req.Header.Set("Accept", "application/json")

	L_debug("catalog: listing models", "key", key, "url", url)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Key: key, Op: "list models", Err: fmt.Errorf("connection failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &FetchError{Key: key, Op: "list models", Status: resp.StatusCode, Err: ErrUnauthorized}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &FetchError{
			Key:    key,
			Op:     "list models",
			Status: resp.StatusCode,
			Err:    fmt.Errorf("API error: %s", strings.TrimSpace(string(body))),
		}
	}

	var result listResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &FetchError{Key: key, Op: "decode listing", Status: resp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
	}
	if result.Data == nil {
		return nil, &FetchError{Key: key, Op: "decode listing", Status: resp.StatusCode, Err: errors.New("response has no data array")}
	}

	L_elapsed(start, "catalog: listed models", "key", key, "count", len(result.Data))
	return result.Data, nil
}
