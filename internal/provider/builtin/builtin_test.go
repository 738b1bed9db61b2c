// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/translation-engine/pkg/types"
)

func TestNewRegistry_AllBackends(t *testing.T) {
	r := NewRegistry()
	assert.ElementsMatch(t, types.AllProviders, r.Names())
	assert.ElementsMatch(t, types.AllProviders, r.ListAvailable())

	for _, name := range types.AllProviders {
		a, ok := r.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, a.Name())
	}
}

func TestNewRegistry_CreateOllama(t *testing.T) {
	a, err := NewRegistry().Create(&types.OllamaConfig{CommonAIConfig: types.CommonAIConfig{ExtractionModel: "llama3.3"}})
	require.NoError(t, err)

	h, err := a.CreateExtractionModel(&types.OllamaConfig{})
	require.NoError(t, err)
	assert.Equal(t, "llama3.1", h.Model())
}
