// Package config holds the resolved runtime settings and API key lookup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/roelfdiedericks/llmcli/internal/catalog"
	"github.com/roelfdiedericks/llmcli/internal/llm"
	"github.com/roelfdiedericks/llmcli/internal/logging"
	"github.com/roelfdiedericks/llmcli/internal/paths"
)

// Config represents the merged llmcli configuration (flags, JSON defaults, env)
type Config struct {
	Provider    string        `json:"provider"`
	Proxied     bool          `json:"proxy"`
	Refresh     bool          `json:"refresh"`
	Model       string        `json:"model"` // skips interactive selection when set
	Timeout     time.Duration `json:"timeout"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"maxTokens"`

	MistralBaseURL string `json:"mistralBaseUrl"`
	GeminiBaseURL  string `json:"geminiBaseUrl"` // empty = genai SDK default
	ProxyBaseURL   string `json:"proxyBaseUrl"`
	CacheDir       string `json:"cacheDir"` // empty = ~/.llmcli/cache
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Provider:       string(catalog.Mistral),
		Timeout:        llm.DefaultTimeout,
		Temperature:    llm.DefaultTemperature,
		MaxTokens:      llm.DefaultMaxTokens,
		MistralBaseURL: llm.MistralBaseURL,
		ProxyBaseURL:   llm.OpenRouterBaseURL,
	}
}

// Validate rejects settings that can't produce a working session.
func (c *Config) Validate() error {
	provider, err := catalog.ParseProvider(c.Provider)
	if err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %.2f", c.Temperature)
	}
	if c.Proxied && c.Model != "" {
		prefix := provider.ProxyPrefix()
		if !strings.HasPrefix(c.Model, prefix) {
			return fmt.Errorf("proxied model %q must start with %q", c.Model, prefix)
		}
	}
	return nil
}

// Key returns the catalog key for these settings. Call Validate first.
func (c *Config) Key() catalog.Key {
	return catalog.NewKey(catalog.Provider(strings.ToLower(c.Provider)), c.Proxied)
}

// ResolveCacheDir returns the cache directory with ~ expanded.
func (c *Config) ResolveCacheDir() (string, error) {
	if c.CacheDir == "" {
		return paths.CacheDir()
	}
	return paths.ExpandTilde(c.CacheDir)
}

// LLMOptions returns the generation parameters for the chat client.
func (c *Config) LLMOptions() llm.Options {
	return llm.Options{
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		Timeout:     c.Timeout,
	}
}

// FetcherConfig builds the catalog fetcher settings for the active key.
func (c *Config) FetcherConfig(apiKey string) catalog.FetcherConfig {
	fc := catalog.FetcherConfig{
		MistralBaseURL: c.MistralBaseURL,
		GeminiBaseURL:  c.GeminiBaseURL,
		ProxyBaseURL:   c.ProxyBaseURL,
		Timeout:        c.Timeout,
	}
	key := c.Key()
	switch {
	case key.Mode == catalog.Proxied:
		fc.ProxyAPIKey = apiKey
	case key.Provider == catalog.Mistral:
		fc.MistralAPIKey = apiKey
	case key.Provider == catalog.Gemini:
		fc.GeminiAPIKey = apiKey
	}
	return fc
}

// Target builds the chat destination for the selected model.
func (c *Config) Target(apiKey, model string) llm.Target {
	key := c.Key()
	t := llm.Target{
		Provider: string(key.Provider),
		Proxied:  c.Proxied,
		Model:    model,
		APIKey:   apiKey,
	}
	switch {
	case c.Proxied:
		t.BaseURL = c.ProxyBaseURL
	case key.Provider == catalog.Mistral:
		t.BaseURL = c.MistralBaseURL
	case key.Provider == catalog.Gemini:
		t.BaseURL = c.GeminiBaseURL
	}
	return t
}

// LoadEnv loads a .env file, letting its values override the process
// environment. A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}
	expanded, err := paths.ExpandTilde(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); errors.Is(err, os.ErrNotExist) {
		logging.L_debug("config: no env file", "path", expanded)
		return nil
	}
	if err := godotenv.Overload(expanded); err != nil {
		return fmt.Errorf("failed to load %s: %w", expanded, err)
	}
	logging.L_debug("config: loaded env file", "path", expanded)
	return nil
}

// MissingKeyError means the required API key variable is unset or blank.
type MissingKeyError struct {
	Var string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s not found in environment or .env file", e.Var)
}

// KeyVar names the environment variable holding the API key for a provider
// and access mode. Proxied access always uses the proxy's key.
func KeyVar(provider string, proxied bool) string {
	if proxied {
		return "OPENROUTER_API_KEY"
	}
	return strings.ToUpper(strings.TrimSpace(provider)) + "_API_KEY"
}

// APIKey reads the API key for provider/proxied from the environment.
func APIKey(provider string, proxied bool) (string, error) {
	name := KeyVar(provider, proxied)
	key := strings.TrimSpace(os.Getenv(name))
	if key == "" {
		return "", &MissingKeyError{Var: name}
	}
	logging.L_debug("config: api key found", "var", name, "key", logging.MaskSecret(key))
	return key, nil
}
