// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/pdiddy/translation-engine/internal/ingest"
	"github.com/pdiddy/translation-engine/internal/library"
	"github.com/pdiddy/translation-engine/internal/logging"
	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/internal/provider/builtin"
	"github.com/pdiddy/translation-engine/internal/secrets"
	"github.com/pdiddy/translation-engine/internal/server"
	"github.com/pdiddy/translation-engine/internal/translator"
	"github.com/pdiddy/translation-engine/pkg/types"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 2
	defaultCacheTTL   = time.Hour
	defaultLibrary    = "library/items.db"
	redisKeyPrefix    = "translation-engine:page:"
)

// appConfig is everything the commands read from the config file,
// environment and secrets.
type appConfig struct {
	Translator types.TranslatorConfig
	Cache      cacheConfig
	Library    string
	Server     server.Config
	Log        logging.Config
}

type cacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Dir           string
	TTL           time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("max_retries", defaultMaxRetries)
	v.SetDefault("cache.ttl", defaultCacheTTL)
	v.SetDefault("library.path", defaultLibrary)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// loadConfig reads v into an appConfig. API keys not present in v are
// taken from the loaded secrets.
func loadConfig(v *viper.Viper, keys map[string]string) (appConfig, error) {
	setDefaults(v)

	ai, err := aiConfig(v, keys)
	if err != nil {
		return appConfig{}, err
	}

	redisPassword := v.GetString("cache.redis_password")
	if redisPassword == "" {
		redisPassword = keys[secrets.RedisPassword]
	}

	return appConfig{
		Translator: types.TranslatorConfig{
			Timeout:          v.GetDuration("timeout"),
			MaxRetries:       v.GetInt("max_retries"),
			MaxContentLength: v.GetInt("max_content_length"),
			UserAgent:        v.GetString("user_agent"),
			AI:               ai,
		},
		Cache: cacheConfig{
			RedisAddr:     v.GetString("cache.redis_addr"),
			RedisPassword: redisPassword,
			RedisDB:       v.GetInt("cache.redis_db"),
			Dir:           v.GetString("cache.dir"),
			TTL:           v.GetDuration("cache.ttl"),
		},
		Library: v.GetString("library.path"),
		Server: server.Config{
			Addr:      v.GetString("server.addr"),
			RateLimit: v.GetFloat64("server.rate_limit"),
			Burst:     v.GetInt("server.burst"),
		},
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}, nil
}

// aiConfig builds the provider union from the ai.* keys. An empty
// ai.provider means fallback-only mode.
func aiConfig(v *viper.Viper, keys map[string]string) (types.AIProviderConfig, error) {
	name := types.ProviderName(strings.ToLower(strings.TrimSpace(v.GetString("ai.provider"))))
	if name == "" {
		return nil, nil
	}

	common := types.CommonAIConfig{
		APIKey:              v.GetString("ai.api_key"),
		ClassificationModel: v.GetString("ai.classification_model"),
		ExtractionModel:     v.GetString("ai.extraction_model"),
		MaxTokens:           v.GetInt("ai.max_tokens"),
		MaxRetries:          v.GetInt("ai.max_retries"),
		Timeout:             v.GetDuration("ai.timeout"),
	}
	// Vertex AI authenticates with application credentials; a Gemini API
	// key from .secrets would conflict with the project setting.
	vertex := name == types.ProviderGemini && v.GetBool("ai.use_vertex_ai")
	if common.APIKey == "" && !vertex {
		common.APIKey = secrets.APIKeyFor(keys, name)
	}
	if v.IsSet("ai.temperature") {
		t := v.GetFloat64("ai.temperature")
		common.Temperature = &t
	}

	switch name {
	case types.ProviderOpenAI:
		return &types.OpenAIConfig{
			CommonAIConfig: common,
			Organization:   v.GetString("ai.organization"),
			Project:        v.GetString("ai.project"),
			BaseURL:        v.GetString("ai.base_url"),
		}, nil
	case types.ProviderAnthropic:
		return &types.AnthropicConfig{
			CommonAIConfig: common,
			BaseURL:        v.GetString("ai.base_url"),
			PromptCaching:  v.GetBool("ai.prompt_caching"),
			CacheTTL:       v.GetDuration("ai.cache_ttl"),
		}, nil
	case types.ProviderGemini:
		return &types.GeminiConfig{
			CommonAIConfig: common,
			UseVertexAI:    vertex,
			Project:        v.GetString("ai.project"),
			Location:       v.GetString("ai.location"),
			BaseURL:        v.GetString("ai.base_url"),
		}, nil
	case types.ProviderOllama:
		cfg := &types.OllamaConfig{
			CommonAIConfig: common,
			BaseURL:        v.GetString("ai.base_url"),
			NumCtx:         v.GetInt("ai.num_ctx"),
			KeepAlive:      v.GetString("ai.keep_alive"),
		}
		if v.IsSet("ai.num_gpu") {
			n := v.GetInt("ai.num_gpu")
			cfg.NumGPU = &n
		}
		if v.IsSet("ai.num_thread") {
			n := v.GetInt("ai.num_thread")
			cfg.NumThread = &n
		}
		return cfg, nil
	}
	return nil, types.NewConfigurationError("unknown ai.provider %q (want one of %v)", name, types.AllProviders)
}

// pipeline is a wired translator and the resources it holds.
type pipeline struct {
	translator *translator.Translator
	registry   *provider.Registry
	metrics    *prometheus.Registry
	close      func()
}

// newPipeline wires the ingestor, its cache and the translator for cfg.
func newPipeline(ctx context.Context, cfg appConfig) (*pipeline, error) {
	var opts []ingest.Option
	closeFn := func() {}

	switch {
	case cfg.Cache.RedisAddr != "":
		client, err := ingest.DialRedis(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ingest.WithCache(ingest.NewRedisCache(client, redisKeyPrefix, cfg.Cache.TTL)))
		closeFn = func() { client.Close() }
	case cfg.Cache.Dir != "":
		fc, err := ingest.NewFileCache(cfg.Cache.Dir, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ingest.WithCache(fc))
	}

	in := ingest.New(ingest.Config{
		Timeout:    cfg.Translator.Timeout,
		MaxRetries: cfg.Translator.MaxRetries,
		UserAgent:  cfg.Translator.UserAgent,
	}, opts...)

	reg := prometheus.NewRegistry()
	registry := builtin.NewRegistry()
	t, err := translator.New(cfg.Translator, in, registry, translator.WithMetrics(translator.NewMetrics(reg)))
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("creating translator: %w", err)
	}
	return &pipeline{translator: t, registry: registry, metrics: reg, close: closeFn}, nil
}

func openLibrary(cfg appConfig) (*library.Store, error) {
	store, err := library.Open(cfg.Library)
	if err != nil {
		return nil, fmt.Errorf("opening library %s: %w", cfg.Library, err)
	}
	return store, nil
}
