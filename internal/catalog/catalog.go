// Package catalog resolves the list of models a provider exposes.
//
// A catalog is identified by a Key (provider + access mode). The Resolver
// serves it from the on-disk Store when possible and otherwise asks the
// Fetcher registered for that key, writing the fresh result back.
package catalog

import (
	"fmt"
	"strings"
)

// Provider is an upstream LLM vendor.
type Provider string

const (
	Mistral Provider = "mistral"
	Gemini  Provider = "gemini"
)

// Providers lists the supported providers in display order.
var Providers = []Provider{Mistral, Gemini}

// ParseProvider maps a command-line value to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case Mistral, Gemini:
		return p, nil
	}
	return "", fmt.Errorf("unsupported provider: %q (want mistral or gemini)", s)
}

// DisplayName returns the capitalized provider name used in banners.
func (p Provider) DisplayName() string {
	switch p {
	case Mistral:
		return "Mistral"
	case Gemini:
		return "Gemini"
	}
	return string(p)
}

// ProxyPrefix is the namespace the proxy uses for this provider's models.
func (p Provider) ProxyPrefix() string {
	switch p {
	case Mistral:
		return "mistralai/"
	case Gemini:
		return "google/"
	}
	return ""
}

// Mode is how the provider is reached.
type Mode string

const (
	Direct  Mode = "direct"
	Proxied Mode = "proxied"
)

// Key selects one catalog: which cache file and which fetch strategy apply.
type Key struct {
	Provider Provider
	Mode     Mode
}

// NewKey builds a Key from the --provider and --proxy settings.
func NewKey(p Provider, proxied bool) Key {
	if proxied {
		return Key{Provider: p, Mode: Proxied}
	}
	return Key{Provider: p, Mode: Direct}
}

// Keys returns the four valid catalog keys.
func Keys() []Key {
	keys := make([]Key, 0, len(Providers)*2)
	for _, p := range Providers {
		keys = append(keys, Key{p, Direct}, Key{p, Proxied})
	}
	return keys
}

// Valid reports whether k is one of the supported combinations.
func (k Key) Valid() bool {
	if k.Provider != Mistral && k.Provider != Gemini {
		return false
	}
	return k.Mode == Direct || k.Mode == Proxied
}

func (k Key) String() string {
	return string(k.Provider) + "/" + string(k.Mode)
}

// Accepts reports whether a model id may appear in this catalog.
// Proxied catalogs only hold ids in the provider's namespace.
func (k Key) Accepts(id string) bool {
	if id == "" {
		return false
	}
	if k.Mode == Proxied {
		return strings.HasPrefix(id, k.Provider.ProxyPrefix())
	}
	return true
}

// Model describes one selectable model. ID is sent back verbatim in the
// completion request, so proxied ids keep their namespace prefix.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Title is the human-readable label, falling back to the id.
func (m Model) Title() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// normalize drops ids the key does not accept and keeps the first
// occurrence of each id, preserving order.
func normalize(key Key, models []Model) []Model {
	seen := make(map[string]bool, len(models))
	out := make([]Model, 0, len(models))
	for _, m := range models {
		if !key.Accepts(m.ID) || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}
