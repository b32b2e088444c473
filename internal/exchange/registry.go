package exchange

import (
	"fmt"
	"sort"
	"strings"
)

// Registry is an immutable name-to-provider mapping built once at startup.
// Lookup is a pure map read; no dynamic registration happens at runtime.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry indexes the given providers by name. Duplicate or empty names
// fail construction so misconfiguration surfaces at startup.
func NewRegistry(providers ...Provider) (*Registry, error) {
	indexed := make(map[string]Provider, len(providers))
	for _, p := range providers {
		name := strings.ToLower(strings.TrimSpace(p.Name()))
		if name == "" {
			return nil, fmt.Errorf("exchange: provider with empty name")
		}
		if _, exists := indexed[name]; exists {
			return nil, fmt.Errorf("exchange: duplicate provider name %q", name)
		}
		indexed[name] = p
	}
	return &Registry{providers: indexed}, nil
}

// Resolve returns the provider registered under name, or an UnknownProvider
// error. There is no fallback.
func (r *Registry) Resolve(name string) (Provider, error) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, UnknownProviderError(name)
	}
	return p, nil
}

// Names lists the registered provider names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
