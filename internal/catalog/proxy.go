package catalog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/roelfdiedericks/llmcli/internal/llm"
	. "github.com/roelfdiedericks/llmcli/internal/logging"
)

const proxyDefaultDescription = "Available via OpenRouter"

// ProxyFetcher lists the proxy's models and keeps one provider's namespace.
// Ids keep their prefix: the proxy expects "mistralai/..." back in the
// completion request.
type ProxyFetcher struct {
	provider Provider
	baseURL  string
	apiKey   string
	client   *http.Client
}

// NewProxyFetcher returns a fetcher for the proxied catalog of provider.
func NewProxyFetcher(provider Provider, baseURL, apiKey string, timeout time.Duration) *ProxyFetcher {
	if baseURL == "" {
		baseURL = llm.OpenRouterBaseURL
	}
	return &ProxyFetcher{
		provider: provider,
		baseURL:  baseURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

func (f *ProxyFetcher) Fetch(ctx context.Context) ([]Model, error) {
	key := Key{f.provider, Proxied}
	prefix := f.provider.ProxyPrefix()

	entries, err := listModels(ctx, f.client, key, f.baseURL, f.apiKey)
	if err != nil {
		return nil, err
	}

	models := make([]Model, 0)
	for _, e := range entries {
		if !strings.HasPrefix(e.ID, prefix) {
			continue
		}
		name := e.Name
		if name == "" {
			name = e.ID
		}
		desc := e.Description
		if desc == "" {
			desc = proxyDefaultDescription
		}
		models = append(models, Model{ID: e.ID, Name: name, Description: desc})
	}

	L_debug("catalog: filtered proxy listing", "key", key, "prefix", prefix, "total", len(entries), "kept", len(models))
	return normalize(key, models), nil
}
