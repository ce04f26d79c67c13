package translation

import (
	"fmt"

	"LawExporter/internal/config"
	"LawExporter/internal/ports"
)

// Factory builds a provider from its configuration block.
type Factory func(cfg config.ProviderConfig) (ports.Provider, error)

// Registry keeps a mapping from provider kinds to their factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, factory Factory) {
	if r.factories == nil {
		r.factories = map[string]Factory{}
	}
	r.factories[kind] = factory
}

// Build instantiates every usable provider in configuration order.
// Providers missing their endpoint or credential are skipped.
func (r *Registry) Build(cfgs []config.ProviderConfig) ([]ports.Provider, error) {
	var providers []ports.Provider
	for _, cfg := range cfgs {
		if !cfg.Ready() {
			continue
		}
		factory, ok := r.factories[cfg.Kind]
		if !ok {
			return nil, fmt.Errorf("provider kind %s is not registered", cfg.Kind)
		}
		provider, err := factory(cfg)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", cfg.DisplayName(), err)
		}
		providers = append(providers, provider)
	}
	return providers, nil
}
