package catalog

import (
	"context"
	"fmt"

	. "github.com/roelfdiedericks/llmcli/internal/logging"
)

// Resolver serves catalogs from the cache, falling back to the fetchers.
type Resolver struct {
	cache    Cache
	fetchers map[Key]Fetcher
}

// NewResolver returns a Resolver over cache with the given fetch strategies.
func NewResolver(cache Cache, fetchers map[Key]Fetcher) *Resolver {
	return &Resolver{cache: cache, fetchers: fetchers}
}

// Resolve returns the catalog for key.
//
// Without forceRefresh a non-empty cache is returned as-is and no network call
// is made. Otherwise the fetcher runs and its result replaces the cache; a
// failed cache write is logged and the fresh list is still returned. A fetch
// failure is returned unchanged: there is no stale fallback.
func (r *Resolver) Resolve(ctx context.Context, key Key, forceRefresh bool) ([]Model, error) {
	if !forceRefresh {
		if models, ok := r.cache.Load(key); ok && len(models) > 0 {
			L_debug("catalog: cache hit", "key", key, "models", len(models))
			return models, nil
		}
		L_debug("catalog: cache miss", "key", key)
	} else {
		L_debug("catalog: refresh forced", "key", key)
	}

	fetcher, ok := r.fetchers[key]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownKey, key)
	}

	fetched, err := fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	// same filtering as a later cache hit would apply
	models := normalize(key, fetched)

	if err := r.cache.Save(key, models); err != nil {
		L_warn("catalog: failed to save cache", "key", key, "error", err)
	}

	L_info("catalog: resolved", "key", key, "models", len(models))
	return models, nil
}
