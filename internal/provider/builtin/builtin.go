// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package builtin assembles a provider registry from the adapters compiled
// into the binary. Each adapter sits behind a build tag, no_<provider>, so
// a build can leave out backends whose SDKs it does not want to link.
package builtin

import "github.com/pdiddy/translation-engine/internal/provider"

// registrations is filled by the init functions of the tagged files.
var registrations []func(*provider.Registry)

// NewRegistry returns a registry holding every compiled-in adapter.
func NewRegistry() *provider.Registry {
	r := provider.NewRegistry()
	for _, register := range registrations {
		register(r)
	}
	return r
}
