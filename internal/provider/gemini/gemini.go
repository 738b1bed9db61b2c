// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gemini adapts Google's genai SDK to provider.Adapter. It serves
// both the Gemini API (API key) and Vertex AI (project and location).
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/pdiddy/translation-engine/internal/httputil"
	"github.com/pdiddy/translation-engine/internal/logging"
	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/pkg/types"
)

const (
	defaultClassificationTokens = 64
	defaultExtractionTokens     = 8192
)

// Adapter serves the gemini backend.
type Adapter struct {
	// HTTPClient replaces the retrying client built from the config.
	HTTPClient *http.Client
}

// New returns a Gemini adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Name() types.ProviderName { return types.ProviderGemini }
func (a *Adapter) Available() bool          { return true }

func (a *Adapter) ValidateConfig(cfg types.AIProviderConfig) error {
	return provider.ValidateConfig(types.ProviderGemini, cfg)
}

func (a *Adapter) ModelCapabilities(model string) (provider.Capabilities, bool) {
	return provider.ModelCapabilities(types.ProviderGemini, model)
}

func (a *Adapter) CreateClassificationModel(cfg types.AIProviderConfig) (provider.ModelHandle, error) {
	model, _ := provider.ResolveModels(cfg)
	return a.newHandle(cfg, model, defaultClassificationTokens, "")
}

func (a *Adapter) CreateExtractionModel(cfg types.AIProviderConfig) (provider.ModelHandle, error) {
	_, model := provider.ResolveModels(cfg)
	return a.newHandle(cfg, model, defaultExtractionTokens, "application/json")
}

func (a *Adapter) newHandle(cfg types.AIProviderConfig, model string, defaultTokens int32, mime string) (*handle, error) {
	c, ok := cfg.(*types.GeminiConfig)
	if !ok {
		return nil, types.NewConfigurationError("gemini adapter needs a gemini configuration, got %T", cfg)
	}

	cc := &genai.ClientConfig{}
	if c.UseVertexAI {
		cc.Backend = genai.BackendVertexAI
		cc.Project = c.Project
		cc.Location = c.Location
	} else {
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = provider.APIKey(c)
	}
	if c.BaseURL != "" {
		cc.HTTPOptions.BaseURL = c.BaseURL
	}
	if c.Timeout > 0 {
		cc.HTTPOptions.Timeout = genai.Ptr(c.Timeout)
	}
	cc.HTTPClient = a.HTTPClient
	if cc.HTTPClient == nil {
		cc.HTTPClient = httputil.NewClient(0, c.MaxRetries)
	}

	gen := &genai.GenerateContentConfig{
		MaxOutputTokens:  defaultTokens,
		ResponseMIMEType: mime,
	}
	if c.MaxTokens > 0 {
		gen.MaxOutputTokens = int32(c.MaxTokens)
	}
	if c.Temperature != nil {
		gen.Temperature = genai.Ptr(float32(*c.Temperature))
	}

	return &handle{
		clientConfig: cc,
		model:        model,
		gen:          gen,
		log:          logging.For("provider.gemini"),
	}, nil
}

// handle builds its genai client on first use, since Vertex AI client
// construction resolves application default credentials. A failed build is
// not kept; the next Invoke tries again.
type handle struct {
	clientConfig *genai.ClientConfig
	model        string
	gen          *genai.GenerateContentConfig
	log          *slog.Logger

	mu     sync.Mutex
	client *genai.Client
}

func (h *handle) genaiClient(ctx context.Context) (*genai.Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.client != nil {
		return h.client, nil
	}
	cc := *h.clientConfig
	client, err := genai.NewClient(ctx, &cc)
	if err != nil {
		return nil, err
	}
	h.client = client
	return client, nil
}

func (h *handle) Model() string { return h.model }

func (h *handle) Invoke(ctx context.Context, p provider.Prompt) (string, error) {
	client, err := h.genaiClient(ctx)
	if err != nil {
		return "", fmt.Errorf("gemini: creating client: %w", err)
	}

	gen := *h.gen
	if p.System != "" {
		gen.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, h.model, genai.Text(p.User), &gen)
	if err != nil {
		h.log.Warn("provider.invoke.failed", "model", h.model, "err", err)
		return "", fmt.Errorf("gemini %s: %w", h.model, err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini %s: reply has no text content", h.model)
	}
	h.log.Debug("provider.invoke.ok", "model", h.model, "duration", time.Since(start))
	return text, nil
}
