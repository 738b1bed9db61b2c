// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ollama adapts a local Ollama server's native chat endpoint to
// provider.Adapter. No credential is sent.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/translation-engine/internal/httputil"
	"github.com/pdiddy/translation-engine/internal/logging"
	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/pkg/types"
)

const (
	chatPath                    = "/api/chat"
	defaultClassificationTokens = 64
	defaultExtractionTokens     = 4096
)

// Adapter serves the ollama backend.
type Adapter struct {
	// DefaultBaseURL is used when the config has no base_url. An adapter
	// with neither reports itself unavailable.
	DefaultBaseURL string

	HTTPClient *http.Client
}

// New returns an Ollama adapter pointing at the standard local port.
func New() *Adapter { return &Adapter{DefaultBaseURL: provider.DefaultOllamaURL} }

func (a *Adapter) Name() types.ProviderName { return types.ProviderOllama }
func (a *Adapter) Available() bool          { return a.DefaultBaseURL != "" }

func (a *Adapter) ValidateConfig(cfg types.AIProviderConfig) error {
	return provider.ValidateConfig(types.ProviderOllama, cfg)
}

func (a *Adapter) ModelCapabilities(model string) (provider.Capabilities, bool) {
	return provider.ModelCapabilities(types.ProviderOllama, model)
}

func (a *Adapter) CreateClassificationModel(cfg types.AIProviderConfig) (provider.ModelHandle, error) {
	model, _ := provider.ResolveModels(cfg)
	return a.newHandle(cfg, model, defaultClassificationTokens, "")
}

// CreateExtractionModel returns a handle that asks the server for JSON output.
func (a *Adapter) CreateExtractionModel(cfg types.AIProviderConfig) (provider.ModelHandle, error) {
	_, model := provider.ResolveModels(cfg)
	return a.newHandle(cfg, model, defaultExtractionTokens, "json")
}

func (a *Adapter) newHandle(cfg types.AIProviderConfig, model string, defaultTokens int, format string) (*handle, error) {
	c, ok := cfg.(*types.OllamaConfig)
	if !ok {
		return nil, types.NewConfigurationError("ollama adapter needs an ollama configuration, got %T", cfg)
	}

	base := c.BaseURL
	if base == "" {
		base = a.DefaultBaseURL
	}
	if base == "" {
		return nil, types.NewConfigurationError("ollama: base_url is required")
	}

	client := a.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: c.Timeout}
	}

	opts := options{
		NumPredict:  defaultTokens,
		Temperature: c.Temperature,
		NumGPU:      c.NumGPU,
		NumThread:   c.NumThread,
		NumCtx:      c.NumCtx,
	}
	if c.MaxTokens > 0 {
		opts.NumPredict = c.MaxTokens
	}

	return &handle{
		url:        strings.TrimRight(base, "/") + chatPath,
		model:      model,
		format:     format,
		keepAlive:  c.KeepAlive,
		options:    opts,
		maxRetries: c.MaxRetries,
		client:     client,
		log:        logging.For("provider.ollama"),
	}, nil
}

// chatRequest is the request body of POST /api/chat.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	Stream    bool          `json:"stream"`
	Format    string        `json:"format,omitempty"`
	KeepAlive string        `json:"keep_alive,omitempty"`
	Options   options       `json:"options"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// options carries Ollama's runtime parameters.
type options struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	NumGPU      *int     `json:"num_gpu,omitempty"`
	NumThread   *int     `json:"num_thread,omitempty"`
	NumCtx      int      `json:"num_ctx,omitempty"`
}

// chatResponse is the non-streaming response body of POST /api/chat.
type chatResponse struct {
	Message    chatMessage `json:"message"`
	Done       bool        `json:"done"`
	EvalCount  int         `json:"eval_count"`
	PromptEval int         `json:"prompt_eval_count"`
	Error      string      `json:"error"`
}

type handle struct {
	url        string
	model      string
	format     string
	keepAlive  string
	options    options
	maxRetries int
	client     *http.Client
	log        *slog.Logger
}

func (h *handle) Model() string { return h.model }

func (h *handle) Invoke(ctx context.Context, p provider.Prompt) (string, error) {
	reqBody := chatRequest{
		Model:     h.model,
		Stream:    false,
		Format:    h.format,
		KeepAlive: h.keepAlive,
		Options:   h.options,
	}
	if p.System != "" {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: "system", Content: p.System})
	}
	reqBody.Messages = append(reqBody.Messages, chatMessage{Role: "user", Content: p.User})

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, h.client, req, h.maxRetries)
	if err != nil {
		h.log.Warn("provider.invoke.failed", "model", h.model, "err", err)
		return "", fmt.Errorf("ollama %s: %w", h.model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ollama %s: server returned %d: %s", h.model, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("ollama %s: decoding response: %w", h.model, err)
	}
	if cResp.Error != "" {
		return "", fmt.Errorf("ollama %s: %s", h.model, cResp.Error)
	}
	if cResp.Message.Content == "" {
		return "", fmt.Errorf("ollama %s: reply has no content", h.model)
	}

	h.log.Debug("provider.invoke.ok", "model", h.model, "duration", time.Since(start),
		"prompt_tokens", cResp.PromptEval, "eval_tokens", cResp.EvalCount)
	return cResp.Message.Content, nil
}
