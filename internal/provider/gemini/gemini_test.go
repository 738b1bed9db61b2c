// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/pkg/types"
)

func geminiServer(t *testing.T, reply string, path *string, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": reply}},
				},
				"finishReason": "STOP",
			}},
		})
	}))
}

func TestInvoke_GeminiAPI(t *testing.T) {
	var path string
	var body map[string]any
	ts := geminiServer(t, `{"title":"Gemini"}`, &path, &body)
	defer ts.Close()

	temp := 0.4
	cfg := &types.GeminiConfig{
		CommonAIConfig: types.CommonAIConfig{APIKey: "AIza-test", Temperature: &temp},
		BaseURL:        ts.URL,
	}
	a := New()
	require.NoError(t, a.ValidateConfig(cfg))

	h, err := a.CreateExtractionModel(cfg)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", h.Model())

	got, err := h.Invoke(context.Background(), provider.Prompt{System: "extract json", User: "page text"})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Gemini"}`, got)

	assert.True(t, strings.HasSuffix(path, "models/gemini-2.5-flash:generateContent"), path)
	gen := body["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", gen["responseMimeType"])
	assert.InDelta(t, 0.4, gen["temperature"], 1e-6)
	assert.Contains(t, body, "systemInstruction")
}

func TestInvoke_ClassificationPlainText(t *testing.T) {
	var path string
	var body map[string]any
	ts := geminiServer(t, "thesis", &path, &body)
	defer ts.Close()

	cfg := &types.GeminiConfig{CommonAIConfig: types.CommonAIConfig{APIKey: "AIza-test"}, BaseURL: ts.URL}
	h, err := New().CreateClassificationModel(cfg)
	require.NoError(t, err)

	got, err := h.Invoke(context.Background(), provider.Prompt{User: "text"})
	require.NoError(t, err)
	assert.Equal(t, "thesis", got)
	gen := body["generationConfig"].(map[string]any)
	assert.NotContains(t, gen, "responseMimeType")
}

func TestCreate_VertexDoesNotDial(t *testing.T) {
	cfg := &types.GeminiConfig{UseVertexAI: true, Project: "proj", Location: "us-central1"}
	require.NoError(t, New().ValidateConfig(cfg))

	h, err := New().CreateExtractionModel(cfg)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", h.Model())
}

func TestInvoke_ClientBuildFailureIsNotSticky(t *testing.T) {
	var path string
	var body map[string]any
	ts := geminiServer(t, "book", &path, &body)
	defer ts.Close()

	t.Setenv(provider.EnvGeminiKey, "")
	t.Setenv(provider.EnvGoogleKey, "")

	h, err := New().CreateClassificationModel(&types.GeminiConfig{BaseURL: ts.URL})
	require.NoError(t, err)

	_, err = h.Invoke(context.Background(), provider.Prompt{User: "page text"})
	require.Error(t, err)
	assert.Empty(t, path, "no request without a client")

	// The key becomes available after the first failure.
	t.Setenv(provider.EnvGeminiKey, "AIza-test")

	got, err := h.Invoke(context.Background(), provider.Prompt{User: "page text"})
	require.NoError(t, err)
	assert.Equal(t, "book", got)
}
