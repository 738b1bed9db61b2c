// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"sort"
	"strings"

	"github.com/pdiddy/translation-engine/pkg/types"
)

// Capabilities is static metadata about one model. It is informational and
// never gates a request.
type Capabilities struct {
	MaxContextLength   int  `json:"maxContextLength" yaml:"max_context_length"`
	MaxOutputTokens    int  `json:"maxOutputTokens" yaml:"max_output_tokens"`
	SupportsImageInput bool `json:"supportsImageInput" yaml:"supports_image_input"`
	SupportsStreaming  bool `json:"supportsStreaming" yaml:"supports_streaming"`
	SupportsJSONMode   bool `json:"supportsJSONMode" yaml:"supports_json_mode"`
}

var (
	openAIChat       = Capabilities{MaxContextLength: 128000, MaxOutputTokens: 16384, SupportsImageInput: true, SupportsStreaming: true, SupportsJSONMode: true}
	openAILong       = Capabilities{MaxContextLength: 1047576, MaxOutputTokens: 32768, SupportsImageInput: true, SupportsStreaming: true, SupportsJSONMode: true}
	openAIReasoning  = Capabilities{MaxContextLength: 200000, MaxOutputTokens: 100000, SupportsImageInput: true, SupportsStreaming: true, SupportsJSONMode: true}
	claudeLarge      = Capabilities{MaxContextLength: 200000, MaxOutputTokens: 64000, SupportsImageInput: true, SupportsStreaming: true}
	claudeOpus       = Capabilities{MaxContextLength: 200000, MaxOutputTokens: 32000, SupportsImageInput: true, SupportsStreaming: true}
	claudeSmall      = Capabilities{MaxContextLength: 200000, MaxOutputTokens: 8192, SupportsImageInput: true, SupportsStreaming: true}
	claudeLegacy     = Capabilities{MaxContextLength: 200000, MaxOutputTokens: 4096, SupportsImageInput: true, SupportsStreaming: true}
	geminiLong       = Capabilities{MaxContextLength: 1048576, MaxOutputTokens: 65536, SupportsImageInput: true, SupportsStreaming: true, SupportsJSONMode: true}
	geminiFlash      = Capabilities{MaxContextLength: 1048576, MaxOutputTokens: 8192, SupportsImageInput: true, SupportsStreaming: true, SupportsJSONMode: true}
	geminiLegacyPro  = Capabilities{MaxContextLength: 2097152, MaxOutputTokens: 8192, SupportsImageInput: true, SupportsStreaming: true, SupportsJSONMode: true}
	ollamaText       = Capabilities{MaxContextLength: 128000, MaxOutputTokens: 4096, SupportsStreaming: true, SupportsJSONMode: true}
	ollamaSmallText  = Capabilities{MaxContextLength: 32768, MaxOutputTokens: 4096, SupportsStreaming: true, SupportsJSONMode: true}
	ollamaMultimodal = Capabilities{MaxContextLength: 128000, MaxOutputTokens: 4096, SupportsImageInput: true, SupportsStreaming: true, SupportsJSONMode: true}
)

// capabilityTable lists every model identifier each backend accepts. Ollama
// entries are model families; a ":tag" suffix is accepted on any of them.
var capabilityTable = map[types.ProviderName]map[string]Capabilities{
	types.ProviderOpenAI: {
		"gpt-4.1":       openAILong,
		"gpt-4.1-mini":  openAILong,
		"gpt-4.1-nano":  openAILong,
		"gpt-4o":        openAIChat,
		"gpt-4o-mini":   openAIChat,
		"gpt-4-turbo":   {MaxContextLength: 128000, MaxOutputTokens: 4096, SupportsImageInput: true, SupportsStreaming: true, SupportsJSONMode: true},
		"gpt-3.5-turbo": {MaxContextLength: 16385, MaxOutputTokens: 4096, SupportsStreaming: true, SupportsJSONMode: true},
		"o1":            openAIReasoning,
		"o3-mini":       {MaxContextLength: 200000, MaxOutputTokens: 100000, SupportsStreaming: true, SupportsJSONMode: true},
		"o4-mini":       openAIReasoning,
	},
	types.ProviderAnthropic: {
		"claude-opus-4-6":            claudeLarge,
		"claude-sonnet-4-6":          claudeLarge,
		"claude-opus-4-5":            claudeLarge,
		"claude-sonnet-4-5":          claudeLarge,
		"claude-sonnet-4-5-20250929": claudeLarge,
		"claude-haiku-4-5":           claudeLarge,
		"claude-haiku-4-5-20251001":  claudeLarge,
		"claude-opus-4-1-20250805":   claudeOpus,
		"claude-sonnet-4-20250514":   claudeLarge,
		"claude-3-7-sonnet-latest":   claudeLarge,
		"claude-3-5-haiku-latest":    claudeSmall,
		"claude-3-haiku-20240307":    claudeLegacy,
	},
	types.ProviderGemini: {
		"gemini-2.5-pro":        geminiLong,
		"gemini-2.5-flash":      geminiLong,
		"gemini-2.5-flash-lite": geminiLong,
		"gemini-2.0-flash":      geminiFlash,
		"gemini-2.0-flash-lite": geminiFlash,
		"gemini-1.5-pro":        geminiLegacyPro,
		"gemini-1.5-flash":      geminiFlash,
	},
	types.ProviderOllama: {
		"llama3.1":    ollamaText,
		"llama3.2":    ollamaText,
		"llama3.3":    ollamaText,
		"mistral":     ollamaSmallText,
		"mixtral":     ollamaSmallText,
		"qwen2.5":     {MaxContextLength: 32768, MaxOutputTokens: 8192, SupportsStreaming: true, SupportsJSONMode: true},
		"qwen3":       ollamaSmallText,
		"gemma2":      {MaxContextLength: 8192, MaxOutputTokens: 4096, SupportsStreaming: true, SupportsJSONMode: true},
		"gemma3":      ollamaMultimodal,
		"phi3":        ollamaText,
		"phi4":        {MaxContextLength: 16384, MaxOutputTokens: 4096, SupportsStreaming: true, SupportsJSONMode: true},
		"deepseek-r1": ollamaText,
		"llava":       {MaxContextLength: 4096, MaxOutputTokens: 2048, SupportsImageInput: true, SupportsStreaming: true, SupportsJSONMode: true},
	},
}

// ModelPair names the default classification and extraction models of a
// backend. Classification defaults to the cheaper model.
type ModelPair struct {
	Classification string `json:"classification" yaml:"classification"`
	Extraction     string `json:"extraction" yaml:"extraction"`
}

var defaultModels = map[types.ProviderName]ModelPair{
	types.ProviderOpenAI:    {Classification: "gpt-4o-mini", Extraction: "gpt-4o"},
	types.ProviderAnthropic: {Classification: "claude-haiku-4-5", Extraction: "claude-sonnet-4-5"},
	types.ProviderGemini:    {Classification: "gemini-2.5-flash-lite", Extraction: "gemini-2.5-flash"},
	types.ProviderOllama:    {Classification: "llama3.2", Extraction: "llama3.1"},
}

// DefaultModels returns the default model pair of a backend.
func DefaultModels(name types.ProviderName) ModelPair {
	return defaultModels[name]
}

// KnownModels returns the sorted model identifiers of a backend.
func KnownModels(name types.ProviderName) []string {
	table := capabilityTable[name]
	out := make([]string, 0, len(table))
	for id := range table {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ModelCapabilities looks up a model of a backend. For Ollama the ":tag"
// suffix is ignored.
func ModelCapabilities(name types.ProviderName, model string) (Capabilities, bool) {
	table, ok := capabilityTable[name]
	if !ok {
		return Capabilities{}, false
	}
	if name == types.ProviderOllama {
		model, _, _ = strings.Cut(model, ":")
	}
	c, ok := table[model]
	return c, ok
}

// IsKnownModel reports whether model is in the backend's table.
func IsKnownModel(name types.ProviderName, model string) bool {
	_, ok := ModelCapabilities(name, model)
	return ok
}
