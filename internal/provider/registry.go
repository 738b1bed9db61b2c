// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"slices"
	"sync"

	"github.com/pdiddy/translation-engine/pkg/types"
)

// Registry maps backend names to adapters. It is populated at startup and
// read concurrently afterwards.
type Registry struct {
	mu       sync.RWMutex
	adapters map[types.ProviderName]Adapter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[types.ProviderName]Adapter)}
}

// Register binds name to adapter. A later registration for the same name
// replaces the earlier one.
func (r *Registry) Register(name types.ProviderName, adapter Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[name] = adapter
}

// Lookup returns the adapter registered for name.
func (r *Registry) Lookup(name types.ProviderName) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	return a, ok
}

// Create resolves the adapter for cfg's backend, checks that it is usable,
// and validates cfg with it. Every failure is a ConfigurationError.
func (r *Registry) Create(cfg types.AIProviderConfig) (Adapter, error) {
	if cfg == nil {
		return nil, types.NewConfigurationError("AI provider configuration is missing")
	}
	name := cfg.Provider()

	a, ok := r.Lookup(name)
	if !ok {
		if slices.Contains(types.AllProviders, name) {
			return nil, types.NewConfigurationError(
				"AI provider %q is not compiled into this binary; rebuild without the no_%s build tag", name, name)
		}
		return nil, types.NewConfigurationError("unknown AI provider %q", name)
	}
	if !a.Available() {
		return nil, types.NewConfigurationError("AI provider %q is registered but not available", name)
	}
	if err := a.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// Names returns every registered backend name, sorted.
func (r *Registry) Names() []types.ProviderName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]types.ProviderName, 0, len(r.adapters))
	for n := range r.adapters {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// ListAvailable returns the sorted names of registered adapters whose
// availability check currently passes.
func (r *Registry) ListAvailable() []types.ProviderName {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []types.ProviderName
	for n, a := range r.adapters {
		if a.Available() {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}
