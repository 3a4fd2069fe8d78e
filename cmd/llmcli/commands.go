package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/roelfdiedericks/llmcli/internal/catalog"
	"github.com/roelfdiedericks/llmcli/internal/config"
	"github.com/roelfdiedericks/llmcli/internal/llm"
	. "github.com/roelfdiedericks/llmcli/internal/logging"
	"github.com/roelfdiedericks/llmcli/internal/selector"
	"github.com/roelfdiedericks/llmcli/internal/session"
	"github.com/roelfdiedericks/llmcli/internal/tui"
)

// selectAttempts is how many invalid answers the numbered prompt tolerates.
const selectAttempts = 3

// ChatCmd resolves the catalog, lets the user pick a model and runs the session.
type ChatCmd struct{}

func (c *ChatCmd) Run(ctx context.Context, g *Globals) error {
	cfg, err := g.setup()
	if err != nil {
		return err
	}
	apiKey, err := config.APIKey(cfg.Provider, cfg.Proxied)
	if err != nil {
		return err
	}

	// selection and the session share one buffer over stdin
	stdin := bufio.NewReader(os.Stdin)

	model := cfg.Model
	if model == "" {
		models, err := resolveModels(ctx, cfg, apiKey)
		if err != nil {
			return err
		}
		usePicker := g.Picker && selector.IsTerminal(os.Stdin)
		picked, err := chooseModel(models, usePicker, stdin, os.Stdout)
		if err != nil {
			return err
		}
		model = picked.ID
	}
	L_info("model selected", "model", model)

	client, err := llm.NewClient(ctx, cfg.Target(apiKey, model), cfg.LLMOptions())
	if err != nil {
		return err
	}

	s := session.New(client, cfg.Key().Provider.DisplayName(), stdin, os.Stdout)
	err = s.Run(ctx)
	stats := s.Stats()
	L_debug("session ended", "turns", stats.Turns, "failures", stats.Failures)
	return err
}

// ModelsCmd prints the resolved catalog.
type ModelsCmd struct {
	JSON bool `help:"Print the catalog as JSON."`
}

func (c *ModelsCmd) Run(ctx context.Context, g *Globals) error {
	cfg, err := g.setup()
	if err != nil {
		return err
	}
	apiKey, err := config.APIKey(cfg.Provider, cfg.Proxied)
	if err != nil {
		return err
	}
	models, err := resolveModels(ctx, cfg, apiKey)
	if err != nil {
		return err
	}

	if c.JSON {
		data, err := json.MarshalIndent(models, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	if len(models) == 0 {
		return catalog.ErrEmptyCatalog
	}
	selector.New(os.Stdin, os.Stdout).Render(models)
	return nil
}

// CheckKeyCmd sends one small completion to prove the key works.
type CheckKeyCmd struct {
	Key string `help:"API key to verify (overrides the environment)."`
}

// checkKeyModels are used when --model is not given.
var checkKeyModels = map[catalog.Key]string{
	{Provider: catalog.Mistral, Mode: catalog.Direct}:  "mistral-small-latest",
	{Provider: catalog.Gemini, Mode: catalog.Direct}:   "gemini-2.5-flash",
	{Provider: catalog.Mistral, Mode: catalog.Proxied}: "mistralai/mistral-small-latest",
	{Provider: catalog.Gemini, Mode: catalog.Proxied}:  "google/gemini-2.5-flash",
}

func (c *CheckKeyCmd) Run(ctx context.Context, g *Globals) error {
	cfg, err := g.setup()
	if err != nil {
		return err
	}
	key := cfg.Key()
	envVar := config.KeyVar(cfg.Provider, cfg.Proxied)

	apiKey := c.Key
	if apiKey == "" {
		if apiKey, err = config.APIKey(cfg.Provider, cfg.Proxied); err != nil {
			return err
		}
	}
	model := cfg.Model
	if model == "" {
		model = checkKeyModels[key]
	}

	fmt.Println(tui.Banner(key.Provider.DisplayName()+" API Key Verification", ""))
	fmt.Printf("Checking %s: %s\n", envVar, MaskSecret(apiKey))
	fmt.Printf("Sending test request to %s...\n", model)

	client, err := llm.NewClient(ctx, cfg.Target(apiKey, model), cfg.LLMOptions())
	if err != nil {
		return err
	}
	res := llm.CheckKey(ctx, client)
	if res.OK {
		fmt.Println(tui.SuccessStyle.Render("SUCCESS: API key is valid and working"))
		fmt.Println("Sample response received:")
		fmt.Println(res.Sample)
		return nil
	}

	fmt.Println(tui.ErrorStyle.Render("ERROR: " + llm.FormatErrorForUser(res.Err.Error(), res.Type)))
	L_debug("key check failed", "error", res.Err)
	fmt.Println("\nPlease check your API key:")
	for i, hint := range llm.KeyCheckHints(string(key.Provider), envVar, res.Type) {
		fmt.Printf("%d. %s\n", i+1, hint)
	}
	return fmt.Errorf("key check failed: %w", res.Err)
}

// resolveModels runs the catalog resolver for the configured key.
func resolveModels(ctx context.Context, cfg *config.Config, apiKey string) ([]catalog.Model, error) {
	key := cfg.Key()
	dir, err := cfg.ResolveCacheDir()
	if err != nil {
		return nil, err
	}
	fetcher, err := catalog.NewFetcher(ctx, key, cfg.FetcherConfig(apiKey))
	if err != nil {
		return nil, err
	}
	resolver := catalog.NewResolver(catalog.NewStore(dir), map[catalog.Key]catalog.Fetcher{key: fetcher})
	return resolver.Resolve(ctx, key, cfg.Refresh)
}

// chooseModel asks the user for a model, re-prompting on bad input. in must
// be the same reader the session continues with.
func chooseModel(models []catalog.Model, usePicker bool, in *bufio.Reader, out io.Writer) (catalog.Model, error) {
	if usePicker {
		return selector.Pick(models)
	}
	return promptModel(selector.New(in, out), models, out)
}

func promptModel(sel *selector.Selector, models []catalog.Model, out io.Writer) (catalog.Model, error) {
	var err error
	for attempt := 1; attempt <= selectAttempts; attempt++ {
		var m catalog.Model
		m, err = sel.Select(models)
		if err == nil {
			return m, nil
		}
		var selErr *selector.SelectionError
		if !errors.As(err, &selErr) || errors.Is(err, io.EOF) {
			return catalog.Model{}, err
		}
		if attempt < selectAttempts {
			fmt.Fprintln(out, tui.WarningStyle.Render(selErr.Error()+", try again"))
		}
	}
	return catalog.Model{}, err
}

// reportError prints a user-facing message for a failed command.
func reportError(w io.Writer, err error) {
	var (
		missing  *config.MissingKeyError
		fetchErr *catalog.FetchError
		selErr   *selector.SelectionError
	)
	switch {
	case errors.As(err, &missing):
		fmt.Fprintln(w, tui.ErrorStyle.Render("Error: "+missing.Error()))
		fmt.Fprintln(w, tui.HintStyle.Render(fmt.Sprintf("Add %s=<your key> to your .env file", missing.Var)))
	case errors.As(err, &fetchErr):
		fmt.Fprintln(w, tui.ErrorStyle.Render("Failed to fetch models: "+llm.FormatErrorForUser(fetchErr.Err.Error(), fetchErr.Type())))
		L_debug("fetch failed", "error", err)
	case errors.Is(err, catalog.ErrEmptyCatalog):
		fmt.Fprintln(w, tui.ErrorStyle.Render("Error: "+catalog.ErrEmptyCatalog.Error()))
		fmt.Fprintln(w, tui.HintStyle.Render("Run with --refresh to fetch the list again"))
	case errors.As(err, &selErr):
		fmt.Fprintln(w, tui.ErrorStyle.Render("Error: "+selErr.Error()))
	default:
		fmt.Fprintln(w, tui.ErrorStyle.Render("Error: "+err.Error()))
	}
}
