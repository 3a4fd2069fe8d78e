package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/roelfdiedericks/llmcli/internal/llm"
	. "github.com/roelfdiedericks/llmcli/internal/logging"
)

// GeminiCandidates are the model ids probed in Gemini-direct mode. Gemini's
// API key has no usable listing for this purpose, so anything released after
// this list was written is not offered until it is added here.
var GeminiCandidates = []string{
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
}

const geminiDefaultDescription = "Gemini model"

// Prober checks whether a single model id is usable.
type Prober interface {
	Probe(ctx context.Context, id string) (Model, error)
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, id string) (Model, error)

func (f ProberFunc) Probe(ctx context.Context, id string) (Model, error) { return f(ctx, id) }

// GeminiFetcher probes a fixed candidate list, one model at a time.
type GeminiFetcher struct {
	prober     Prober
	candidates []string
}

// NewGeminiFetcher returns a Gemini-direct fetcher. A nil candidates slice
// uses GeminiCandidates.
func NewGeminiFetcher(prober Prober, candidates []string) *GeminiFetcher {
	if candidates == nil {
		candidates = GeminiCandidates
	}
	return &GeminiFetcher{prober: prober, candidates: candidates}
}

// Fetch returns the candidates whose probe succeeded, in candidate order.
// A failed probe only drops that candidate; an empty result is not an error.
func (f *GeminiFetcher) Fetch(ctx context.Context) ([]Model, error) {
	key := Key{Gemini, Direct}
	start := time.Now()

	models := make([]Model, 0, len(f.candidates))
	for _, id := range f.candidates {
		if err := ctx.Err(); err != nil {
			return nil, &FetchError{Key: key, Op: "probe models", Err: err}
		}

		m, err := f.prober.Probe(ctx, id)
		if err != nil {
			L_debug("catalog: gemini probe failed", "model", id, "error", err)
			continue
		}
		if m.ID == "" {
			m.ID = id
		}
		if m.Name == "" {
			m.Name = id
		}
		if m.Description == "" {
			m.Description = geminiDefaultDescription
		}
		models = append(models, m)
	}

	L_elapsed(start, "catalog: gemini probes finished", "candidates", len(f.candidates), "available", len(models))
	return normalize(key, models), nil
}

// GenaiProber probes with a models.get metadata call, which costs no tokens
// and returns the display name and description.
type GenaiProber struct {
	client *genai.Client
}

// NewGenaiProber builds a prober on the genai SDK.
func NewGenaiProber(ctx context.Context, apiKey, baseURL string, timeout time.Duration) (*GenaiProber, error) {
	client, err := llm.NewGenaiClient(ctx, apiKey, baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &GenaiProber{client: client}, nil
}

func (p *GenaiProber) Probe(ctx context.Context, id string) (Model, error) {
	info, err := p.client.Models.Get(ctx, id, nil)
	if err != nil {
		return Model{}, fmt.Errorf("probe %s: %w", id, err)
	}
	if info == nil {
		return Model{}, fmt.Errorf("probe %s: empty response", id)
	}
	return Model{
		ID:          id,
		Name:        info.DisplayName,
		Description: strings.TrimSpace(info.Description),
	}, nil
}
