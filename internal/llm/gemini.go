package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	. "github.com/roelfdiedericks/llmcli/internal/logging"
)

// NewGenaiClient creates a Gemini API client. baseURL may be empty to use the
// SDK default endpoint.
func NewGenaiClient(ctx context.Context, apiKey, baseURL string, timeout time.Duration) (*genai.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}
	return client, nil
}

// GeminiClient runs the chat turn through the genai SDK.
type GeminiClient struct {
	model  string
	opts   Options
	client *genai.Client
}

// NewGeminiClient creates a Gemini client for model.
func NewGeminiClient(ctx context.Context, apiKey, baseURL, model string, opts Options) (*GeminiClient, error) {
	opts = opts.withDefaults()
	client, err := NewGenaiClient(ctx, apiKey, baseURL, opts.Timeout)
	if err != nil {
		return nil, err
	}
	L_debug("llm: gemini client created", "model", model, "key", MaskSecret(apiKey))
	return &GeminiClient{model: model, opts: opts, client: client}, nil
}

func (c *GeminiClient) Name() string  { return "Gemini" }
func (c *GeminiClient) Model() string { return c.model }

// Complete sends prompt as a single user turn.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	prompt, err := CleanPrompt(prompt)
	if err != nil {
		return "", err
	}

	L_info("llm: calling Gemini", "model", c.model, "prompt", preview(prompt, 50))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.opts.Temperature),
		MaxOutputTokens: int32(c.opts.MaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	content := strings.TrimSpace(resp.Text())
	L_debug("llm: response received", "name", "Gemini", "chars", len(content))
	return content, nil
}
