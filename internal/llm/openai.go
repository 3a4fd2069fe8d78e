package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	. "github.com/roelfdiedericks/llmcli/internal/logging"
)

// openRouterTransport adds attribution headers to OpenRouter requests
type openRouterTransport struct {
	base http.RoundTripper
}

func (t *openRouterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("HTTP-Referer", "https://github.com/roelfdiedericks/llmcli")
	req.Header.Set("X-Title", "llmcli")
	if t.base == nil {
		return http.DefaultTransport.RoundTrip(req)
	}
	return t.base.RoundTrip(req)
}

// OpenAIClient talks to OpenAI-compatible chat completion APIs.
// Used for Mistral direct and for the OpenRouter proxy.
type OpenAIClient struct {
	name   string
	model  string
	opts   Options
	client *openai.Client
}

// NewOpenAIClient creates a client for baseURL (e.g. https://api.mistral.ai/v1).
func NewOpenAIClient(name, baseURL, apiKey, model string, opts Options) *OpenAIClient {
	opts = opts.withDefaults()

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimSuffix(baseURL, "/")

	var transport http.RoundTripper = http.DefaultTransport
	if strings.Contains(strings.ToLower(baseURL), "openrouter") {
		transport = &openRouterTransport{base: http.DefaultTransport}
	}
	config.HTTPClient = &http.Client{Transport: transport, Timeout: opts.Timeout}

	L_debug("llm: openai-compatible client created", "name", name, "baseURL", config.BaseURL, "model", model, "key", MaskSecret(apiKey))

	return &OpenAIClient{
		name:   name,
		model:  model,
		opts:   opts,
		client: openai.NewClientWithConfig(config),
	}
}

func (c *OpenAIClient) Name() string  { return c.name }
func (c *OpenAIClient) Model() string { return c.model }

// Complete sends prompt as a single user message.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	prompt, err := CleanPrompt(prompt)
	if err != nil {
		return "", err
	}

	L_info("llm: calling "+c.name, "model", c.model, "prompt", preview(prompt, 50))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%s API error (status %d): %s", c.name, apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("%s request failed: %w", c.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", c.name)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	L_debug("llm: response received", "name", c.name, "chars", len(content), "finish", resp.Choices[0].FinishReason)
	return content, nil
}
