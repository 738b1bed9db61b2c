// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package builtin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/translation-engine/internal/httputil"
	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/internal/provider/anthropic"
	"github.com/pdiddy/translation-engine/internal/provider/gemini"
	"github.com/pdiddy/translation-engine/internal/provider/ollama"
	"github.com/pdiddy/translation-engine/internal/provider/openai"
	"github.com/pdiddy/translation-engine/pkg/types"
)

// unavailable always answers 503 and counts the requests it sees. The
// millisecond hint keeps SDK backoff short.
func unavailable(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After-Ms", "1")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestMaxRetries_SameOnEveryBackend(t *testing.T) {
	old := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	t.Cleanup(func() { httputil.RetryBaseDelay = old })

	backends := []struct {
		name    string
		adapter provider.Adapter
		config  func(baseURL string, retries int) types.AIProviderConfig
	}{
		{"openai", openai.New(), func(u string, n int) types.AIProviderConfig {
			return &types.OpenAIConfig{CommonAIConfig: types.CommonAIConfig{APIKey: "sk-test", MaxRetries: n}, BaseURL: u}
		}},
		{"anthropic", anthropic.New(), func(u string, n int) types.AIProviderConfig {
			return &types.AnthropicConfig{CommonAIConfig: types.CommonAIConfig{APIKey: "sk-ant-test", MaxRetries: n}, BaseURL: u}
		}},
		{"gemini", gemini.New(), func(u string, n int) types.AIProviderConfig {
			return &types.GeminiConfig{CommonAIConfig: types.CommonAIConfig{APIKey: "AIza-test", MaxRetries: n}, BaseURL: u}
		}},
		{"ollama", ollama.New(), func(u string, n int) types.AIProviderConfig {
			return &types.OllamaConfig{CommonAIConfig: types.CommonAIConfig{MaxRetries: n}, BaseURL: u}
		}},
	}
	retries := []struct {
		configured int
		wantCalls  int32
	}{
		{0, httputil.DefaultMaxRetries + 1},
		{1, 2},
	}

	for _, b := range backends {
		for _, r := range retries {
			t.Run(fmt.Sprintf("%s/max_retries=%d", b.name, r.configured), func(t *testing.T) {
				var calls atomic.Int32
				ts := unavailable(t, &calls)

				h, err := b.adapter.CreateClassificationModel(b.config(ts.URL, r.configured))
				require.NoError(t, err)

				_, err = h.Invoke(context.Background(), provider.Prompt{System: "sys", User: "usr"})
				require.Error(t, err)
				assert.Equal(t, r.wantCalls, calls.Load())
			})
		}
	}
}
