// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ProviderName identifies an AI backend.
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderGemini    ProviderName = "gemini"
	ProviderOllama    ProviderName = "ollama"
)

// AllProviders lists every backend the engine knows about, whether or not it
// is compiled into the current binary.
var AllProviders = []ProviderName{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderOllama}

// CommonAIConfig holds the settings every backend shares.
type CommonAIConfig struct {
	// APIKey is the backend credential. Backends without credentials ignore it.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// ClassificationModel is the model used by the classification stage.
	// Empty selects the backend default.
	ClassificationModel string `json:"classification_model,omitempty" yaml:"classification_model,omitempty"`

	// ExtractionModel is the model used by the extraction stage.
	// Empty selects the backend default.
	ExtractionModel string `json:"extraction_model,omitempty" yaml:"extraction_model,omitempty"`

	// Temperature is the sampling temperature. Nil leaves the backend default.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`

	// MaxTokens caps the reply length. Zero selects the backend default.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`

	// MaxRetries is the HTTP-level retry count of the backend client. Zero
	// selects the default of 3 on every backend.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout bounds a single model call. Zero selects the translator timeout.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// AIProviderConfig is the tagged union of backend configurations. Exactly
// one of *OpenAIConfig, *AnthropicConfig, *GeminiConfig or *OllamaConfig
// implements it; the tag is Provider().
type AIProviderConfig interface {
	Provider() ProviderName
	Common() *CommonAIConfig
	sealedAIProviderConfig()
}

// OpenAIConfig configures the OpenAI chat-completions backend.
type OpenAIConfig struct {
	CommonAIConfig `yaml:",inline"`

	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`
	Project      string `json:"project,omitempty" yaml:"project,omitempty"`
	BaseURL      string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

func (c *OpenAIConfig) Provider() ProviderName { return ProviderOpenAI }
func (c *OpenAIConfig) Common() *CommonAIConfig { return &c.CommonAIConfig }
func (c *OpenAIConfig) sealedAIProviderConfig() {}

// AnthropicConfig configures the Anthropic messages backend.
type AnthropicConfig struct {
	CommonAIConfig `yaml:",inline"`

	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// PromptCaching marks the system prompt as cacheable.
	PromptCaching bool `json:"prompt_caching,omitempty" yaml:"prompt_caching,omitempty"`

	// CacheTTL is the lifetime of a cached prompt: 5m or 1h.
	CacheTTL time.Duration `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty"`
}

func (c *AnthropicConfig) Provider() ProviderName { return ProviderAnthropic }
func (c *AnthropicConfig) Common() *CommonAIConfig { return &c.CommonAIConfig }
func (c *AnthropicConfig) sealedAIProviderConfig() {}

// GeminiConfig configures the Gemini backend, either through the Gemini API
// with an API key or through Vertex AI with a project and location.
type GeminiConfig struct {
	CommonAIConfig `yaml:",inline"`

	UseVertexAI bool   `json:"use_vertex_ai,omitempty" yaml:"use_vertex_ai,omitempty"`
	Project     string `json:"project,omitempty" yaml:"project,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
	BaseURL     string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

func (c *GeminiConfig) Provider() ProviderName { return ProviderGemini }
func (c *GeminiConfig) Common() *CommonAIConfig { return &c.CommonAIConfig }
func (c *GeminiConfig) sealedAIProviderConfig() {}

// OllamaConfig configures a local Ollama server.
type OllamaConfig struct {
	CommonAIConfig `yaml:",inline"`

	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	NumGPU    *int   `json:"num_gpu,omitempty" yaml:"num_gpu,omitempty"`
	NumThread *int   `json:"num_thread,omitempty" yaml:"num_thread,omitempty"`
	NumCtx    int    `json:"num_ctx,omitempty" yaml:"num_ctx,omitempty"`
	KeepAlive string `json:"keep_alive,omitempty" yaml:"keep_alive,omitempty"`
}

func (c *OllamaConfig) Provider() ProviderName { return ProviderOllama }
func (c *OllamaConfig) Common() *CommonAIConfig { return &c.CommonAIConfig }
func (c *OllamaConfig) sealedAIProviderConfig() {}

// TranslatorConfig is the construction-time configuration of a translator.
type TranslatorConfig struct {
	// Timeout is the HTTP request timeout for ingestion and model calls.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the ingestion retry count on 429 and 5xx responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MaxContentLength caps ExtractedContent.Text in characters. Zero
	// disables the cap.
	MaxContentLength int `json:"max_content_length" yaml:"max_content_length"`

	// UserAgent is sent with every ingestion request.
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`

	// AI selects the backend. Nil runs the translator in fallback-only mode.
	AI AIProviderConfig `json:"-" yaml:"-"`
}
