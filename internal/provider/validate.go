// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/pdiddy/translation-engine/pkg/types"
)

// lookupEnv reads credential fallbacks. Tests replace it.
var lookupEnv = os.Getenv

// Credential prefixes and environment fallbacks.
const (
	openAIKeyPrefix    = "sk-"
	anthropicKeyPrefix = "sk-ant-"

	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvGoogleKey    = "GOOGLE_API_KEY"
)

// Numeric bounds.
const (
	maxTemperature          = 2.0
	maxAnthropicTemperature = 1.0
	maxAnthropicTokens      = 64000
)

// DefaultOllamaURL is used when OllamaConfig.BaseURL is empty.
const DefaultOllamaURL = "http://localhost:11434"

// Anthropic prompt-cache lifetimes.
var anthropicCacheTTLs = []time.Duration{5 * time.Minute, time.Hour}

// vertexLocations is the set of Vertex AI regions serving Gemini models.
var vertexLocations = []string{
	"global",
	"us-central1", "us-east1", "us-east4", "us-east5", "us-south1", "us-west1", "us-west4",
	"northamerica-northeast1", "southamerica-east1",
	"europe-central2", "europe-north1", "europe-southwest1", "europe-west1", "europe-west2",
	"europe-west3", "europe-west4", "europe-west6", "europe-west8", "europe-west9",
	"asia-east1", "asia-east2", "asia-northeast1", "asia-northeast3", "asia-south1",
	"asia-southeast1", "australia-southeast1", "me-central1", "me-central2", "me-west1",
}

// VertexLocations returns the accepted Vertex AI regions.
func VertexLocations() []string {
	return slices.Clone(vertexLocations)
}

// APIKey returns the credential of cfg, falling back to the backend's
// environment variables when the config leaves it empty.
func APIKey(cfg types.AIProviderConfig) string {
	if k := strings.TrimSpace(cfg.Common().APIKey); k != "" {
		return k
	}
	switch cfg.Provider() {
	case types.ProviderOpenAI:
		return lookupEnv(EnvOpenAIKey)
	case types.ProviderAnthropic:
		return lookupEnv(EnvAnthropicKey)
	case types.ProviderGemini:
		if k := lookupEnv(EnvGeminiKey); k != "" {
			return k
		}
		return lookupEnv(EnvGoogleKey)
	}
	return ""
}

// ValidateConfig checks cfg against the rules of the backend it is tagged
// with and, when want is non-empty, that the tag matches want.
func ValidateConfig(want types.ProviderName, cfg types.AIProviderConfig) error {
	if cfg == nil {
		return types.NewConfigurationError("AI provider configuration is missing")
	}
	if want != "" && cfg.Provider() != want {
		return types.NewConfigurationError("configuration for %q passed to %q adapter", cfg.Provider(), want)
	}

	switch c := cfg.(type) {
	case *types.OpenAIConfig:
		return ValidateOpenAI(c)
	case *types.AnthropicConfig:
		return ValidateAnthropic(c)
	case *types.GeminiConfig:
		return ValidateGemini(c)
	case *types.OllamaConfig:
		return ValidateOllama(c)
	default:
		return types.NewConfigurationError("unsupported AI provider configuration %T", cfg)
	}
}

// ValidateBase checks the fields every backend shares. maxTemp is the
// backend's upper temperature bound.
func ValidateBase(name types.ProviderName, c *types.CommonAIConfig, maxTemp float64) error {
	if c.Temperature != nil {
		if t := *c.Temperature; t < 0 || t > maxTemp {
			return types.NewConfigurationError("%s: temperature must be between 0 and %g, got %g", name, maxTemp, t)
		}
	}
	if c.MaxTokens < 0 {
		return types.NewConfigurationError("%s: max_tokens must be a positive integer, got %d", name, c.MaxTokens)
	}
	if c.MaxRetries < 0 {
		return types.NewConfigurationError("%s: max_retries must not be negative, got %d", name, c.MaxRetries)
	}
	if c.Timeout < 0 {
		return types.NewConfigurationError("%s: timeout must not be negative, got %s", name, c.Timeout)
	}
	for _, m := range []struct{ field, id string }{
		{"classification_model", c.ClassificationModel},
		{"extraction_model", c.ExtractionModel},
	} {
		if m.id == "" {
			continue
		}
		if !IsKnownModel(name, m.id) {
			return types.NewConfigurationError("%s: %s %q is not a known model (known: %s)",
				name, m.field, m.id, strings.Join(KnownModels(name), ", "))
		}
	}
	return nil
}

// ValidateOpenAI enforces the OpenAI rules.
func ValidateOpenAI(c *types.OpenAIConfig) error {
	key := APIKey(c)
	if key == "" {
		return types.NewConfigurationError("openai: api_key is required (or set %s)", EnvOpenAIKey)
	}
	if !strings.HasPrefix(key, openAIKeyPrefix) {
		return types.NewConfigurationError("openai: api_key must start with %q", openAIKeyPrefix)
	}
	if err := ValidateBase(types.ProviderOpenAI, &c.CommonAIConfig, maxTemperature); err != nil {
		return err
	}
	if c.BaseURL != "" {
		if err := validateHTTPURL(c.BaseURL); err != nil {
			return types.NewConfigurationError("openai: base_url %v", err)
		}
	}
	return nil
}

// ValidateAnthropic enforces the Anthropic rules: a tighter temperature
// range, a max_tokens ceiling and the prompt-cache lifetime.
func ValidateAnthropic(c *types.AnthropicConfig) error {
	key := APIKey(c)
	if key == "" {
		return types.NewConfigurationError("anthropic: api_key is required (or set %s)", EnvAnthropicKey)
	}
	if !strings.HasPrefix(key, anthropicKeyPrefix) {
		return types.NewConfigurationError("anthropic: api_key must start with %q", anthropicKeyPrefix)
	}
	if err := ValidateBase(types.ProviderAnthropic, &c.CommonAIConfig, maxAnthropicTemperature); err != nil {
		return err
	}
	if c.MaxTokens > maxAnthropicTokens {
		return types.NewConfigurationError("anthropic: max_tokens must be at most %d, got %d", maxAnthropicTokens, c.MaxTokens)
	}
	if c.PromptCaching {
		if c.CacheTTL < 0 {
			return types.NewConfigurationError("anthropic: cache_ttl must be positive, got %s", c.CacheTTL)
		}
		if c.CacheTTL != 0 && !slices.Contains(anthropicCacheTTLs, c.CacheTTL) {
			return types.NewConfigurationError("anthropic: cache_ttl must be 5m or 1h, got %s", c.CacheTTL)
		}
	}
	if c.BaseURL != "" {
		if err := validateHTTPURL(c.BaseURL); err != nil {
			return types.NewConfigurationError("anthropic: base_url %v", err)
		}
	}
	return nil
}

// ValidateGemini enforces the Gemini rules. The Gemini API needs a key;
// Vertex AI needs a project and a known location and must not carry a key.
func ValidateGemini(c *types.GeminiConfig) error {
	if c.UseVertexAI {
		if strings.TrimSpace(c.APIKey) != "" {
			return types.NewConfigurationError("gemini: api_key and use_vertex_ai are mutually exclusive")
		}
		if c.Project == "" {
			return types.NewConfigurationError("gemini: project is required when use_vertex_ai is set")
		}
		if c.Location == "" {
			return types.NewConfigurationError("gemini: location is required when use_vertex_ai is set")
		}
		if !slices.Contains(vertexLocations, c.Location) {
			return types.NewConfigurationError("gemini: location %q is not a supported Vertex AI region", c.Location)
		}
	} else {
		if c.Project != "" || c.Location != "" {
			return types.NewConfigurationError("gemini: project and location require use_vertex_ai")
		}
		if APIKey(c) == "" {
			return types.NewConfigurationError("gemini: api_key is required (or set %s or %s)", EnvGeminiKey, EnvGoogleKey)
		}
	}
	if err := ValidateBase(types.ProviderGemini, &c.CommonAIConfig, maxTemperature); err != nil {
		return err
	}
	if c.BaseURL != "" {
		if err := validateHTTPURL(c.BaseURL); err != nil {
			return types.NewConfigurationError("gemini: base_url %v", err)
		}
	}
	return nil
}

// ValidateOllama enforces the Ollama rules. No credential is required.
func ValidateOllama(c *types.OllamaConfig) error {
	if err := ValidateBase(types.ProviderOllama, &c.CommonAIConfig, maxTemperature); err != nil {
		return err
	}
	if c.BaseURL != "" {
		if err := validateHTTPURL(c.BaseURL); err != nil {
			return types.NewConfigurationError("ollama: base_url %v", err)
		}
	}
	if c.NumGPU != nil && *c.NumGPU < 0 {
		return types.NewConfigurationError("ollama: num_gpu must not be negative, got %d", *c.NumGPU)
	}
	if c.NumThread != nil && *c.NumThread < 0 {
		return types.NewConfigurationError("ollama: num_thread must not be negative, got %d", *c.NumThread)
	}
	if c.NumCtx < 0 {
		return types.NewConfigurationError("ollama: num_ctx must not be negative, got %d", c.NumCtx)
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("has no host: %q", raw)
	}
	return nil
}
