package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/roelfdiedericks/llmcli/internal/config"
	. "github.com/roelfdiedericks/llmcli/internal/logging"
	"github.com/roelfdiedericks/llmcli/internal/paths"
)

const version = "0.1.0"

// Globals are the flags shared by every command. Any of them can also be set
// in ~/.llmcli/config.json or ./llmcli.json.
type Globals struct {
	Provider    string        `help:"LLM provider (${enum})." enum:"mistral,gemini" default:"${provider}"`
	Proxy       bool          `help:"Reach the provider through OpenRouter."`
	Refresh     bool          `help:"Ignore the model cache and fetch a fresh list."`
	Model       string        `help:"Use this model id and skip selection."`
	Picker      bool          `help:"Arrow-key model menu instead of the numbered prompt (terminal only)."`
	Timeout     time.Duration `help:"HTTP timeout per request." default:"${timeout}"`
	Temperature float32       `help:"Sampling temperature." default:"${temperature}"`
	MaxTokens   int           `help:"Maximum tokens per reply." default:"${max_tokens}"`
	CacheDir    string        `help:"Model cache directory (default ~/.llmcli/cache)."`
	EnvFile     string        `help:"Env file holding API keys." default:".env"`
	LogLevel    string        `help:"Log level (${enum})." enum:"trace,debug,info,warn,error" default:"warn"`
	Debug       bool          `help:"Shorthand for --log-level=debug."`

	MistralBaseURL string `help:"Mistral API base URL." default:"${mistral_base_url}" hidden:""`
	GeminiBaseURL  string `help:"Gemini API base URL." hidden:""`
	ProxyBaseURL   string `help:"OpenRouter API base URL." default:"${proxy_base_url}" hidden:""`
}

// defaultVars exposes config.Default() to the flag tags above.
func defaultVars() kong.Vars {
	d := config.Default()
	return kong.Vars{
		"provider":         d.Provider,
		"timeout":          d.Timeout.String(),
		"temperature":      strconv.FormatFloat(float64(d.Temperature), 'g', -1, 32),
		"max_tokens":       strconv.Itoa(d.MaxTokens),
		"mistral_base_url": d.MistralBaseURL,
		"proxy_base_url":   d.ProxyBaseURL,
	}
}

// newParser builds the command parser; main adds the config file loader.
func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("llmcli"),
		kong.Description("Interactive LLM client for Mistral and Gemini, direct or through OpenRouter."),
		kong.UsageOnError(),
		defaultVars(),
	}, options...)
	return kong.New(cli, options...)
}

// CLI is the command tree.
type CLI struct {
	Globals

	Chat     ChatCmd     `cmd:"" default:"withargs" help:"Select a model and start an interactive session."`
	Models   ModelsCmd   `cmd:"" help:"Print the model catalog for the provider."`
	CheckKey CheckKeyCmd `cmd:"" help:"Verify the API key with a small test request."`
	Version  VersionCmd  `cmd:"" help:"Print the version."`
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("llmcli %s\n", version)
	return nil
}

// setup applies logging flags, loads the env file and returns the validated
// runtime config.
func (g *Globals) setup() (*config.Config, error) {
	level, err := ParseLevel(g.LogLevel)
	if err != nil {
		return nil, err
	}
	if g.Debug {
		level = LevelDebug
	}
	Init(&Config{Level: level, TimeFormat: "15:04:05", ShowCaller: level >= LevelDebug})

	if err := config.LoadEnv(g.EnvFile); err != nil {
		return nil, err
	}

	cfg := &config.Config{
		Provider:       g.Provider,
		Proxied:        g.Proxy,
		Refresh:        g.Refresh,
		Model:          g.Model,
		Timeout:        g.Timeout,
		Temperature:    g.Temperature,
		MaxTokens:      g.MaxTokens,
		MistralBaseURL: g.MistralBaseURL,
		GeminiBaseURL:  g.GeminiBaseURL,
		ProxyBaseURL:   g.ProxyBaseURL,
		CacheDir:       g.CacheDir,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	L_debug("config resolved", "key", cfg.Key(), "refresh", cfg.Refresh, "timeout", cfg.Timeout)
	return cfg, nil
}

func main() {
	var cli CLI
	parser, err := newParser(&cli, kong.Configuration(kong.JSON, paths.ConfigPaths()...))
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	kctx.BindTo(ctx, (*context.Context)(nil))

	err = kctx.Run(&cli.Globals)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	reportError(os.Stderr, err)
	cancel()
	os.Exit(1)
}
