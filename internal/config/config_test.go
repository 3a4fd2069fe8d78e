package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/roelfdiedericks/llmcli/internal/catalog"
	"github.com/roelfdiedericks/llmcli/internal/llm"
	"github.com/roelfdiedericks/llmcli/internal/logging"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("default timeout = %s, want 30s", cfg.Timeout)
	}
	if cfg.MaxTokens != 1000 {
		t.Errorf("default max tokens = %d, want 1000", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("default temperature = %v, want 0.7", cfg.Temperature)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"gemini", func(c *Config) { c.Provider = "gemini" }, false},
		{"uppercase provider", func(c *Config) { c.Provider = "Mistral" }, false},
		{"unknown provider", func(c *Config) { c.Provider = "openai" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }, true},
		{"temperature too high", func(c *Config) { c.Temperature = 3 }, true},
		{"proxied model with prefix", func(c *Config) { c.Proxied = true; c.Model = "mistralai/mistral-small-latest" }, false},
		{"proxied model without prefix", func(c *Config) { c.Proxied = true; c.Model = "mistral-small-latest" }, true},
		{"direct model without prefix", func(c *Config) { c.Model = "mistral-small-latest" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestKeyAndFetcherConfig(t *testing.T) {
	cfg := Default()
	cfg.Provider = "gemini"

	if got := cfg.Key(); got != (catalog.Key{Provider: catalog.Gemini, Mode: catalog.Direct}) {
		t.Errorf("Key() = %v", got)
	}
	fc := cfg.FetcherConfig("g-key")
	if fc.GeminiAPIKey != "g-key" || fc.MistralAPIKey != "" || fc.ProxyAPIKey != "" {
		t.Errorf("gemini direct key routed wrong: %+v", fc)
	}

	cfg.Proxied = true
	if got := cfg.Key(); got.Mode != catalog.Proxied {
		t.Errorf("Key().Mode = %v, want proxied", got.Mode)
	}
	fc = cfg.FetcherConfig("or-key")
	if fc.ProxyAPIKey != "or-key" || fc.GeminiAPIKey != "" {
		t.Errorf("proxied key routed wrong: %+v", fc)
	}

	target := cfg.Target("or-key", "google/gemini-2.5-flash")
	if !target.Proxied || target.BaseURL != cfg.ProxyBaseURL || target.Model != "google/gemini-2.5-flash" {
		t.Errorf("unexpected target: %+v", target)
	}
}

func TestKeyVar(t *testing.T) {
	tests := []struct {
		provider string
		proxied  bool
		want     string
	}{
		{"mistral", false, "MISTRAL_API_KEY"},
		{"gemini", false, "GEMINI_API_KEY"},
		{"mistral", true, "OPENROUTER_API_KEY"},
		{"gemini", true, "OPENROUTER_API_KEY"},
	}
	for _, tt := range tests {
		if got := KeyVar(tt.provider, tt.proxied); got != tt.want {
			t.Errorf("KeyVar(%q, %v) = %q, want %q", tt.provider, tt.proxied, got, tt.want)
		}
	}
}

func TestAPIKey(t *testing.T) {
	t.Setenv("MISTRAL_API_KEY", "  mk-123  ")
	t.Setenv("GEMINI_API_KEY", "   ")

	key, err := APIKey("mistral", false)
	if err != nil {
		t.Fatalf("APIKey(mistral): %v", err)
	}
	if key != "mk-123" {
		t.Errorf("APIKey should trim, got %q", key)
	}

	_, err = APIKey("gemini", false)
	var missing *MissingKeyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingKeyError for blank key, got %v", err)
	}
	if missing.Var != "GEMINI_API_KEY" {
		t.Errorf("missing var = %q", missing.Var)
	}
}

func TestAPIKeyLogsMaskedKey(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(&logging.Config{Level: logging.LevelDebug, Output: &buf})
	t.Cleanup(func() { logging.Init(nil) })

	t.Setenv("OPENROUTER_API_KEY", "sk-or-abcdefghijkl")
	if _, err := APIKey("gemini", true); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "OPENROUTER_API_KEY") {
		t.Errorf("expected debug line naming the variable, got %q", out)
	}
	if strings.Contains(out, "sk-or-abcdefghijkl") {
		t.Errorf("full key leaked into log: %q", out)
	}
	if !strings.Contains(out, logging.MaskSecret("sk-or-abcdefghijkl")) {
		t.Errorf("expected masked key in log, got %q", out)
	}
}

func TestDefaultEndpoints(t *testing.T) {
	cfg := Default()
	if cfg.MistralBaseURL != llm.MistralBaseURL || cfg.ProxyBaseURL != llm.OpenRouterBaseURL {
		t.Errorf("default endpoints = %q, %q", cfg.MistralBaseURL, cfg.ProxyBaseURL)
	}
	if cfg.GeminiBaseURL != "" {
		t.Errorf("gemini base URL should default to the SDK endpoint, got %q", cfg.GeminiBaseURL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("MISTRAL_API_KEY=from-file\n# comment\nGEMINI_API_KEY=\"quoted\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MISTRAL_API_KEY", "from-process")
	t.Setenv("GEMINI_API_KEY", "")

	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if got := os.Getenv("MISTRAL_API_KEY"); got != "from-file" {
		t.Errorf("file value should override process env, got %q", got)
	}
	if got := os.Getenv("GEMINI_API_KEY"); got != "quoted" {
		t.Errorf("GEMINI_API_KEY = %q, want quoted", got)
	}
}

func TestLoadEnvMissingFile(t *testing.T) {
	if err := LoadEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing env file should not be an error: %v", err)
	}
	if err := LoadEnv(""); err != nil {
		t.Errorf("empty path should not be an error: %v", err)
	}
}

func TestResolveCacheDir(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	cfg := Default()
	dir, err := cfg.ResolveCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/home/tester/.llmcli/cache" {
		t.Errorf("default cache dir = %q", dir)
	}

	cfg.CacheDir = "~/elsewhere"
	dir, err = cfg.ResolveCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/home/tester/elsewhere" {
		t.Errorf("expanded cache dir = %q", dir)
	}
}
