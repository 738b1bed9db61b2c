// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !no_openai

package builtin

import (
	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/internal/provider/openai"
	"github.com/pdiddy/translation-engine/pkg/types"
)

func init() {
	registrations = append(registrations, func(r *provider.Registry) {
		r.Register(types.ProviderOpenAI, openai.New())
	})
}
