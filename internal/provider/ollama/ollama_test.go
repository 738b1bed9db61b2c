// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/translation-engine/internal/httputil"
	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func TestInvoke_SendsNativeOptions(t *testing.T) {
	var got chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, chatPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: `{"title":"Local"}`},
			Done:    true,
		})
	}))
	defer ts.Close()

	gpus, threads := 1, 8
	cfg := &types.OllamaConfig{
		CommonAIConfig: types.CommonAIConfig{ExtractionModel: "qwen2.5:14b"},
		BaseURL:        ts.URL + "/",
		NumGPU:         &gpus,
		NumThread:      &threads,
		KeepAlive:      "10m",
	}
	a := New()
	require.True(t, a.Available())
	require.NoError(t, a.ValidateConfig(cfg))

	h, err := a.CreateExtractionModel(cfg)
	require.NoError(t, err)

	reply, err := h.Invoke(context.Background(), provider.Prompt{System: "sys", User: "usr"})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Local"}`, reply)

	assert.Equal(t, "qwen2.5:14b", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, "json", got.Format)
	assert.Equal(t, "10m", got.KeepAlive)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	require.NotNil(t, got.Options.NumGPU)
	assert.Equal(t, 1, *got.Options.NumGPU)
	assert.Equal(t, 8, *got.Options.NumThread)
	assert.Equal(t, defaultExtractionTokens, got.Options.NumPredict)
}

func TestInvoke_RetriesUnavailableServer(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Content: "webpage"}, Done: true})
	}))
	defer ts.Close()

	h, err := New().CreateClassificationModel(&types.OllamaConfig{BaseURL: ts.URL})
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", h.Model())

	reply, err := h.Invoke(context.Background(), provider.Prompt{User: "x"})
	require.NoError(t, err)
	assert.Equal(t, "webpage", reply)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestInvoke_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer ts.Close()

	h, err := New().CreateClassificationModel(&types.OllamaConfig{BaseURL: ts.URL})
	require.NoError(t, err)

	_, err = h.Invoke(context.Background(), provider.Prompt{User: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestAvailable_NoBaseURL(t *testing.T) {
	a := &Adapter{}
	assert.False(t, a.Available())

	_, err := a.CreateExtractionModel(&types.OllamaConfig{})
	assert.ErrorIs(t, err, types.ErrConfiguration)
}
