// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/translation-engine/internal/library"
	"github.com/pdiddy/translation-engine/internal/logging"
	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/internal/translator"
	"github.com/pdiddy/translation-engine/pkg/types"
)

// --- fakes ---

type fakeTranslator struct {
	err   error
	calls int
	last  translator.Input
}

func (f *fakeTranslator) Translate(_ context.Context, in translator.Input) (*types.TranslationResult, error) {
	f.calls++
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	return &types.TranslationResult{
		Item: types.Item{
			ItemType: types.ItemWebpage,
			Title:    "Example Domain",
			URL:      in.URL,
		},
		Confidence: 0.3,
		Processing: types.Processing{IngestionMethod: types.IngestionURL},
	}, nil
}

type fakeAdapter struct {
	name      types.ProviderName
	available bool
}

func (a fakeAdapter) Name() types.ProviderName { return a.name }
func (a fakeAdapter) Available() bool { return a.available }
func (a fakeAdapter) ValidateConfig(types.AIProviderConfig) error { return nil }
func (a fakeAdapter) ModelCapabilities(string) (provider.Capabilities, bool) {
	return provider.Capabilities{}, false
}
func (a fakeAdapter) CreateClassificationModel(types.AIProviderConfig) (provider.ModelHandle, error) {
	return nil, errors.New("not implemented")
}
func (a fakeAdapter) CreateExtractionModel(types.AIProviderConfig) (provider.ModelHandle, error) {
	return nil, errors.New("not implemented")
}

func newTestServer(t *testing.T, cfg Config, tr Translator, opts ...Option) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	opts = append(opts, WithLogger(logging.Discard()))
	ts := httptest.NewServer(New(cfg, tr, reg, opts...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string, header map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// --- tests ---

func TestTranslate_OK(t *testing.T) {
	tr := &fakeTranslator{}
	ts := newTestServer(t, Config{}, tr)

	resp := do(t, http.MethodPost, ts.URL+"/translate", `{"url":"https://example.com"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(HeaderTraceID))

	body := decode[map[string]any](t, resp)
	item := body["item"].(map[string]any)
	assert.Equal(t, "webpage", item["itemType"])
	assert.Equal(t, "Example Domain", item["title"])
	assert.Equal(t, 0.3, body["confidence"])
	assert.NotContains(t, body, "key")
	assert.Equal(t, "https://example.com", tr.last.URL)
}

func TestTranslate_ErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"configuration", types.NewConfigurationError("exactly one of url or sourceText"), http.StatusBadRequest, string(types.CodeConfiguration)},
		{"content", types.NewContentExtractionError(nil, "no text"), http.StatusUnprocessableEntity, string(types.CodeContentExtraction)},
		{"pdf", types.NewPDFParseError(nil, "broken"), http.StatusUnprocessableEntity, string(types.CodePDFParse)},
		{"fetch", types.NewURLFetchError(nil, "404"), http.StatusBadGateway, string(types.CodeURLFetch)},
		{"deadline", fmt.Errorf("ingest: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "Gateway Timeout"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, Config{}, &fakeTranslator{err: tt.err})
			resp := do(t, http.MethodPost, ts.URL+"/translate", `{"sourceText":"x"}`, nil)
			assert.Equal(t, tt.want, resp.StatusCode)
			body := decode[errorBody](t, resp)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestTranslate_BadRequest(t *testing.T) {
	tests := []struct {
		name, path, body string
	}{
		{"not json", "/translate", "url=https://example.com"},
		{"bad save flag", "/translate?save=maybe", `{"url":"https://example.com"}`},
		{"save without library", "/translate?save=true", `{"url":"https://example.com"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &fakeTranslator{}
			ts := newTestServer(t, Config{}, tr)
			resp := do(t, http.MethodPost, ts.URL+tt.path, tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Zero(t, tr.calls)
		})
	}
}

func TestTranslate_RateLimited(t *testing.T) {
	tr := &fakeTranslator{}
	ts := newTestServer(t, Config{RateLimit: 0.001, Burst: 2}, tr)

	for i := 0; i < 2; i++ {
		resp := do(t, http.MethodPost, ts.URL+"/translate", `{"sourceText":"x"}`, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp := do(t, http.MethodPost, ts.URL+"/translate", `{"sourceText":"x"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
	assert.Equal(t, 2, tr.calls)

	// Read-only routes are not limited.
	resp = do(t, http.MethodGet, ts.URL+"/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIPRateLimiter_PerIP(t *testing.T) {
	l := NewIPRateLimiter(0.001, 1)
	assert.True(t, l.Limiter("10.0.0.1").Allow())
	assert.False(t, l.Limiter("10.0.0.1").Allow())
	assert.True(t, l.Limiter("10.0.0.2").Allow())
	assert.Same(t, l.Limiter("10.0.0.1"), l.Limiter("10.0.0.1"))
}

func TestTraceID_Propagated(t *testing.T) {
	ts := newTestServer(t, Config{}, &fakeTranslator{})
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "", map[string]string{HeaderTraceID: "abc-123"})
	assert.Equal(t, "abc-123", resp.Header.Get(HeaderTraceID))
}

func TestProviders(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register(types.ProviderOpenAI, fakeAdapter{name: types.ProviderOpenAI, available: true})
	reg.Register(types.ProviderOllama, fakeAdapter{name: types.ProviderOllama, available: false})
	ts := newTestServer(t, Config{}, &fakeTranslator{}, WithRegistry(reg))

	resp := do(t, http.MethodGet, ts.URL+"/providers", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	infos := decode[[]ProviderInfo](t, resp)
	require.Len(t, infos, len(types.AllProviders))

	byName := map[types.ProviderName]ProviderInfo{}
	for _, info := range infos {
		byName[info.Name] = info
	}
	assert.True(t, byName[types.ProviderOpenAI].Available)
	assert.False(t, byName[types.ProviderOllama].Available)
	assert.False(t, byName[types.ProviderGemini].Available)
	assert.Equal(t, "gpt-4o-mini", byName[types.ProviderOpenAI].Defaults.Classification)
	assert.Contains(t, byName[types.ProviderOpenAI].Models, "gpt-4o")
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t, Config{}, &fakeTranslator{})
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "", nil)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	resp = do(t, http.MethodGet, ts.URL+"/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), `http_requests_total{route="/healthz",status="200"} 1`)
}

func TestItems(t *testing.T) {
	store, err := library.Open(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ts := newTestServer(t, Config{}, &fakeTranslator{}, WithLibrary(store))

	resp := do(t, http.MethodPost, ts.URL+"/translate?save=true", `{"url":"https://example.com"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	saved := decode[TranslateResponse](t, resp)
	require.NotEmpty(t, saved.Key)
	assert.Equal(t, 1, saved.Version)
	assert.Equal(t, saved.Key, resp.Header.Get(HeaderItemKey))
	assert.Equal(t, "1", resp.Header.Get(HeaderItemVersion))

	itemURL := ts.URL + "/items/" + saved.Key

	resp = do(t, http.MethodGet, itemURL, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decode[library.Record](t, resp)
	assert.Equal(t, "Example Domain", rec.Item.Title)

	resp = do(t, http.MethodGet, ts.URL+"/items/?itemType=webpage", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]library.Record](t, resp), 1)

	update := `{"itemType":"webpage","title":"Renamed"}`
	resp = do(t, http.MethodPut, itemURL, update, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "missing version header")

	resp = do(t, http.MethodPut, itemURL, update, map[string]string{HeaderIfUnmodifiedVersion: "7"})
	assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)

	resp = do(t, http.MethodPut, itemURL, update, map[string]string{HeaderIfUnmodifiedVersion: "1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get(HeaderItemVersion))
	assert.Equal(t, "Renamed", decode[library.Record](t, resp).Item.Title)

	resp = do(t, http.MethodDelete, itemURL, "", map[string]string{HeaderIfUnmodifiedVersion: strconv.Itoa(2)})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, itemURL, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestItems_WithoutLibrary(t *testing.T) {
	ts := newTestServer(t, Config{}, &fakeTranslator{})
	resp := do(t, http.MethodGet, ts.URL+"/items/", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListenAndServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(Config{Addr: "127.0.0.1:0"}, &fakeTranslator{}, prometheus.NewRegistry(), WithLogger(logging.Discard()))

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
