// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !no_anthropic

package builtin

import (
	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/internal/provider/anthropic"
	"github.com/pdiddy/translation-engine/pkg/types"
)

func init() {
	registrations = append(registrations, func(r *provider.Registry) {
		r.Register(types.ProviderAnthropic, anthropic.New())
	})
}
