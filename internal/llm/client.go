package llm

import (
	"context"
	"strings"
	"time"
)

// Completion defaults.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
	DefaultTimeout     = 30 * time.Second
)

// Client sends a single prompt and returns the full response text.
type Client interface {
	Name() string  // provider label for banners, e.g. "Mistral"
	Model() string // model id sent upstream
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options holds the generation parameters shared by every client.
type Options struct {
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultOptions returns the parameters used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// CleanPrompt trims the prompt and rejects blank input.
func CleanPrompt(prompt string) (string, error) {
	p := strings.TrimSpace(prompt)
	if p == "" {
		return "", ErrEmptyPrompt
	}
	return p, nil
}

// preview shortens a prompt for log lines.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
