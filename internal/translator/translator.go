// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package translator owns the lifecycle of one translation: it validates the
// input, hands it to ingestion, runs the classify, extract and validate
// stages through the configured backend, and falls back to a heuristic
// item when any of those stages fails or no backend is configured.
package translator

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/translation-engine/internal/classify"
	"github.com/pdiddy/translation-engine/internal/extract"
	"github.com/pdiddy/translation-engine/internal/logging"
	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/internal/validate"
	"github.com/pdiddy/translation-engine/pkg/types"
)

// Stage names used in logs and metrics.
const (
	StageIngest   = "ingest"
	StageClassify = "classify"
	StageExtract  = "extract"
	StageValidate = "validate"
	StageFallback = "fallback"
)

// Ingestor turns a URL or pasted text into ExtractedContent. Its errors are
// terminal for the translation.
type Ingestor interface {
	ExtractFromURL(ctx context.Context, rawURL string) (types.ExtractedContent, error)
	ExtractFromSourceText(ctx context.Context, text string) (types.ExtractedContent, error)
}

// Input is one translation request. Exactly one field must be set.
type Input struct {
	URL        string `json:"url,omitempty"`
	SourceText string `json:"sourceText,omitempty"`
}

// Translator runs translations. It is safe for concurrent use.
type Translator struct {
	cfg      types.TranslatorConfig
	ingestor Ingestor

	// ai is nil in fallback-only mode.
	ai *aiPipeline

	metrics *Metrics
	log     *slog.Logger
	now     func() time.Time
}

type aiPipeline struct {
	provider   types.ProviderName
	classifier provider.ModelHandle
	extractor  provider.ModelHandle
	validator  *validate.Validator
}

// Option customizes a Translator.
type Option func(*Translator)

// WithMetrics records translation metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(t *Translator) { t.metrics = m }
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Translator) { t.log = l }
}

// WithClock replaces time.Now for timestamps and timings.
func WithClock(now func() time.Time) Option {
	return func(t *Translator) { t.now = now }
}

// New builds a translator. When cfg.AI is set the backend is created through
// registry and its model handles are built up front, so configuration errors
// surface here rather than per request. A nil cfg.AI selects fallback-only
// mode and registry may be nil.
func New(cfg types.TranslatorConfig, ingestor Ingestor, registry *provider.Registry, opts ...Option) (*Translator, error) {
	if ingestor == nil {
		return nil, types.NewConfigurationError("translator needs an ingestor")
	}
	if cfg.Timeout < 0 {
		return nil, types.NewConfigurationError("timeout must not be negative, got %s", cfg.Timeout)
	}
	if cfg.MaxRetries < 0 {
		return nil, types.NewConfigurationError("max_retries must not be negative, got %d", cfg.MaxRetries)
	}
	if cfg.MaxContentLength < 0 {
		return nil, types.NewConfigurationError("max_content_length must not be negative, got %d", cfg.MaxContentLength)
	}

	t := &Translator{
		cfg:      cfg,
		ingestor: ingestor,
		log:      logging.For("translator"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	if cfg.AI == nil {
		return t, nil
	}
	if registry == nil {
		return nil, types.NewConfigurationError("an AI configuration needs a provider registry")
	}

	aiCfg := withDefaultTimeout(cfg.AI, cfg.Timeout)
	adapter, err := registry.Create(aiCfg)
	if err != nil {
		return nil, err
	}
	classifier, err := adapter.CreateClassificationModel(aiCfg)
	if err != nil {
		return nil, err
	}
	extractor, err := adapter.CreateExtractionModel(aiCfg)
	if err != nil {
		return nil, err
	}
	validator, err := validate.New()
	if err != nil {
		return nil, err
	}
	t.ai = &aiPipeline{
		provider:   adapter.Name(),
		classifier: classifier,
		extractor:  extractor,
		validator:  validator,
	}
	return t, nil
}

// AIProvider returns the configured backend, or "" in fallback-only mode.
func (t *Translator) AIProvider() types.ProviderName {
	if t.ai == nil {
		return ""
	}
	return t.ai.provider
}

// Translate runs one translation. Only configuration errors (bad input) and
// ingestion errors are returned; AI failures are logged and answered with a
// fallback item.
func (t *Translator) Translate(ctx context.Context, in Input) (*types.TranslationResult, error) {
	start := t.now()

	method, err := checkInput(in)
	if err != nil {
		return nil, err
	}

	var content types.ExtractedContent
	switch method {
	case types.IngestionURL:
		content, err = t.ingestor.ExtractFromURL(ctx, strings.TrimSpace(in.URL))
	default:
		content, err = t.ingestor.ExtractFromSourceText(ctx, in.SourceText)
	}
	ingested := t.now()
	t.metrics.observeStage(StageIngest, ingested.Sub(start))
	if err != nil {
		t.log.Warn("translate.ingest.failed", "method", method, "code", types.ErrorCodeOf(err), "err", err)
		return nil, err
	}
	content.Text = capRunes(content.Text, t.cfg.MaxContentLength)

	result := &types.TranslationResult{
		ExtractedContent: content,
		Processing:       types.Processing{IngestionMethod: method},
	}

	path := PathFallback
	if t.ai != nil {
		item, stage, err := t.runAI(ctx, content)
		if err == nil {
			path = PathAI
			result.Item = item
			result.Confidence = Score(content, item)
			classification, extraction := t.ai.classifier.Model(), t.ai.extractor.Model()
			result.Processing.AIProvider = string(t.ai.provider)
			result.Processing.ModelsUsed = &types.ModelsUsed{Classification: classification, Extraction: extraction}
		} else {
			t.log.Warn("translate.ai.failed",
				"stage", stage,
				"provider", t.ai.provider,
				"code", types.ErrorCodeOf(err),
				"err", err,
			)
			t.metrics.countAIFailure(stage, string(t.ai.provider))
		}
	}
	if path == PathFallback {
		fbStart := t.now()
		result.Item = Fallback(content, fbStart)
		result.Confidence = FallbackConfidence
		t.metrics.observeStage(StageFallback, t.now().Sub(fbStart))
	}

	done := t.now()
	result.Processing.ExtractionTimeMs = ingested.Sub(start).Milliseconds()
	result.Processing.TranslationTimeMs = done.Sub(ingested).Milliseconds()
	result.Processing.TotalTimeMs = done.Sub(start).Milliseconds()
	t.metrics.countTranslation(path, string(result.Item.ItemType))

	t.log.Info("translate.done",
		"path", path,
		"item_type", result.Item.ItemType,
		"confidence", result.Confidence,
		"total_ms", result.Processing.TotalTimeMs,
	)
	return result, nil
}

// runAI runs the three model-backed stages. On failure it reports which
// stage failed.
func (t *Translator) runAI(ctx context.Context, content types.ExtractedContent) (types.Item, string, error) {
	stageStart := t.now()
	label, err := classify.Classify(ctx, content, t.ai.classifier)
	t.metrics.observeStage(StageClassify, t.now().Sub(stageStart))
	if err != nil {
		return types.Item{}, StageClassify, err
	}

	stageStart = t.now()
	raw, err := extract.Extract(ctx, content, label, t.ai.extractor)
	t.metrics.observeStage(StageExtract, t.now().Sub(stageStart))
	if err != nil {
		return types.Item{}, StageExtract, err
	}

	stageStart = t.now()
	item, report, err := t.ai.validator.Validate(raw, label)
	t.metrics.observeStage(StageValidate, t.now().Sub(stageStart))
	if err != nil {
		return types.Item{}, StageValidate, err
	}
	if !report.Strict {
		t.log.Debug("translate.validate.repaired",
			"item_type", label,
			"coerced", report.Coerced,
			"dropped", report.Dropped,
		)
	}

	stamp := t.now().UTC().Format(timestampLayout)
	if item.AccessDate == "" {
		item.AccessDate = stamp
	}
	item.DateAdded = stamp
	item.DateModified = stamp
	if item.URL == "" && content.URL != "" {
		item.URL = content.URL
	}
	return item, "", nil
}

// checkInput enforces that exactly one of URL and SourceText is set and that
// a URL is an absolute http(s) URL.
func checkInput(in Input) (types.IngestionMethod, error) {
	hasURL := strings.TrimSpace(in.URL) != ""
	hasText := strings.TrimSpace(in.SourceText) != ""

	switch {
	case hasURL && hasText:
		return "", types.NewConfigurationError("provide either url or sourceText, not both")
	case !hasURL && !hasText:
		return "", types.NewConfigurationError("provide a non-empty url or sourceText")
	case hasText:
		return types.IngestionSourceText, nil
	}

	raw := strings.TrimSpace(in.URL)
	u, err := url.Parse(raw)
	if err != nil {
		return "", &types.TranslatorError{Code: types.CodeConfiguration, Message: "invalid url " + raw, Cause: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", types.NewConfigurationError("url %q must use http or https", raw)
	}
	if u.Host == "" {
		return "", types.NewConfigurationError("url %q has no host", raw)
	}
	return types.IngestionURL, nil
}

// capRunes truncates s to at most n runes. n <= 0 disables the cap.
func capRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	return classify.Prefix(s, n)
}

// withDefaultTimeout returns cfg with a zero per-call timeout replaced by d.
// The caller's value is never modified.
func withDefaultTimeout(cfg types.AIProviderConfig, d time.Duration) types.AIProviderConfig {
	if d <= 0 || cfg.Common().Timeout > 0 {
		return cfg
	}
	switch c := cfg.(type) {
	case *types.OpenAIConfig:
		cp := *c
		cp.Timeout = d
		return &cp
	case *types.AnthropicConfig:
		cp := *c
		cp.Timeout = d
		return &cp
	case *types.GeminiConfig:
		cp := *c
		cp.Timeout = d
		return &cp
	case *types.OllamaConfig:
		cp := *c
		cp.Timeout = d
		return &cp
	}
	return cfg
}
