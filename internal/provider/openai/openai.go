// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openai adapts the OpenAI chat-completions API to provider.Adapter.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/pdiddy/translation-engine/internal/httputil"
	"github.com/pdiddy/translation-engine/internal/logging"
	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/pkg/types"
)

const (
	defaultClassificationTokens = 64
	defaultExtractionTokens     = 4096
)

// Adapter serves the openai backend.
type Adapter struct {
	HTTPClient *http.Client
}

// New returns an OpenAI adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Name() types.ProviderName { return types.ProviderOpenAI }
func (a *Adapter) Available() bool          { return true }

func (a *Adapter) ValidateConfig(cfg types.AIProviderConfig) error {
	return provider.ValidateConfig(types.ProviderOpenAI, cfg)
}

func (a *Adapter) ModelCapabilities(model string) (provider.Capabilities, bool) {
	return provider.ModelCapabilities(types.ProviderOpenAI, model)
}

func (a *Adapter) CreateClassificationModel(cfg types.AIProviderConfig) (provider.ModelHandle, error) {
	model, _ := provider.ResolveModels(cfg)
	return a.newHandle(cfg, model, defaultClassificationTokens, false)
}

// CreateExtractionModel returns a handle that requests JSON-object output.
func (a *Adapter) CreateExtractionModel(cfg types.AIProviderConfig) (provider.ModelHandle, error) {
	_, model := provider.ResolveModels(cfg)
	return a.newHandle(cfg, model, defaultExtractionTokens, true)
}

func (a *Adapter) newHandle(cfg types.AIProviderConfig, model string, defaultTokens int64, jsonMode bool) (*handle, error) {
	c, ok := cfg.(*types.OpenAIConfig)
	if !ok {
		return nil, types.NewConfigurationError("openai adapter needs an openai configuration, got %T", cfg)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(provider.APIKey(c)),
		option.WithMaxRetries(httputil.Retries(c.MaxRetries)),
	}
	if c.Organization != "" {
		opts = append(opts, option.WithOrganization(c.Organization))
	}
	if c.Project != "" {
		opts = append(opts, option.WithProject(c.Project))
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
		client:    sdk.NewClient(opts...),
		model:     model,
		maxTokens: defaultTokens,
		jsonMode:  jsonMode,
		log:       logging.For("provider.openai"),
	}
	if c.MaxTokens > 0 {
		h.maxTokens = int64(c.MaxTokens)
	}
	// Reasoning models reject a sampling temperature.
	if c.Temperature != nil && !isReasoningModel(model) {
		h.temperature = c.Temperature
	}
	return h, nil
}

func isReasoningModel(model string) bool {
	return strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4")
}

type handle struct {
	client      sdk.Client
	model       string
	maxTokens   int64
	temperature *float64
	jsonMode    bool
	log         *slog.Logger
}

func (h *handle) Model() string { return h.model }

func (h *handle) Invoke(ctx context.Context, p provider.Prompt) (string, error) {
	var msgs []sdk.ChatCompletionMessageParamUnion
	if p.System != "" {
		msgs = append(msgs, sdk.SystemMessage(p.System))
	}
	msgs = append(msgs, sdk.UserMessage(p.User))

	params := sdk.ChatCompletionNewParams{
		Model:               sdk.ChatModel(h.model),
		Messages:            msgs,
		MaxCompletionTokens: sdk.Int(h.maxTokens),
	}
	if h.temperature != nil {
		params.Temperature = sdk.Float(*h.temperature)
	}
	if h.jsonMode {
		params.ResponseFormat = sdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	start := time.Now()
	resp, err := h.client.Chat.Completions.New(ctx, params)
	if err != nil {
		h.log.Warn("provider.invoke.failed", "model", h.model, "err", err)
		return "", fmt.Errorf("openai %s: %w", h.model, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai %s: reply has no content", h.model)
	}

	h.log.Debug("provider.invoke.ok", "model", h.model, "duration", time.Since(start),
		"prompt_tokens", resp.Usage.PromptTokens, "completion_tokens", resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}
