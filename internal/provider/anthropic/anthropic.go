// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package anthropic adapts the Anthropic Messages API to provider.Adapter.
// Prompt caching marks the stage instructions as an ephemeral cache
// breakpoint so repeated translations reuse them.
package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/translation-engine/internal/httputil"
	"github.com/pdiddy/translation-engine/internal/logging"
	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/pkg/types"
)

const (
	defaultClassificationTokens = 64
	defaultExtractionTokens     = 4096
)

// Adapter serves the anthropic backend.
type Adapter struct {
	// HTTPClient replaces the SDK's default client when set.
	HTTPClient *http.Client
}

// New returns an Anthropic adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Name() types.ProviderName { return types.ProviderAnthropic }

// Available is always true: the SDK is linked whenever this package is.
func (a *Adapter) Available() bool { return true }

func (a *Adapter) ValidateConfig(cfg types.AIProviderConfig) error {
	return provider.ValidateConfig(types.ProviderAnthropic, cfg)
}

func (a *Adapter) ModelCapabilities(model string) (provider.Capabilities, bool) {
	return provider.ModelCapabilities(types.ProviderAnthropic, model)
}

func (a *Adapter) CreateClassificationModel(cfg types.AIProviderConfig) (provider.ModelHandle, error) {
	model, _ := provider.ResolveModels(cfg)
	return a.newHandle(cfg, model, defaultClassificationTokens)
}

func (a *Adapter) CreateExtractionModel(cfg types.AIProviderConfig) (provider.ModelHandle, error) {
	_, model := provider.ResolveModels(cfg)
	return a.newHandle(cfg, model, defaultExtractionTokens)
}

func (a *Adapter) newHandle(cfg types.AIProviderConfig, model string, defaultTokens int64) (*handle, error) {
	c, ok := cfg.(*types.AnthropicConfig)
	if !ok {
		return nil, types.NewConfigurationError("anthropic adapter needs an anthropic configuration, got %T", cfg)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(provider.APIKey(c)),
		option.WithMaxRetries(httputil.Retries(c.MaxRetries)),
	}
	if c.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(c.BaseURL))
	}
	if c.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(c.Timeout))
	}
	if a.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(a.HTTPClient))
	}

	h := &handle{
		client:      sdk.NewClient(opts...),
		model:       model,
		maxTokens:   defaultTokens,
		temperature: c.Temperature,
		log:         logging.For("provider.anthropic"),
	}
	if c.MaxTokens > 0 {
		h.maxTokens = int64(c.MaxTokens)
	}
	if c.PromptCaching {
		h.cache = &sdk.CacheControlEphemeralParam{TTL: cacheTTL(c.CacheTTL)}
	}
	return h, nil
}

func cacheTTL(d time.Duration) sdk.CacheControlEphemeralTTL {
	if d == time.Hour {
		return sdk.CacheControlEphemeralTTLTTL1h
	}
	return sdk.CacheControlEphemeralTTLTTL5m
}

type handle struct {
	client      sdk.Client
	model       string
	maxTokens   int64
	temperature *float64
	cache       *sdk.CacheControlEphemeralParam
	log         *slog.Logger
}

func (h *handle) Model() string { return h.model }

// Invoke sends one Messages request and concatenates the text blocks of the
// reply.
func (h *handle) Invoke(ctx context.Context, p provider.Prompt) (string, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(h.model),
		MaxTokens: h.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(p.User)),
		},
	}
	if h.temperature != nil {
		params.Temperature = sdk.Float(*h.temperature)
	}
	if p.System != "" {
		block := sdk.TextBlockParam{Text: p.System}
		if h.cache != nil {
			block.CacheControl = *h.cache
		}
		params.System = []sdk.TextBlockParam{block}
	}

	start := time.Now()
	msg, err := h.client.Messages.New(ctx, params)
	if err != nil {
		h.log.Warn("provider.invoke.failed", "model", h.model, "err", err)
		return "", fmt.Errorf("anthropic %s: %w", h.model, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("anthropic %s: reply has no text content", h.model)
	}

	h.log.Debug("provider.invoke.ok", "model", h.model, "duration", time.Since(start),
		"input_tokens", msg.Usage.InputTokens, "output_tokens", msg.Usage.OutputTokens)
	return b.String(), nil
}
