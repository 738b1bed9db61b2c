// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// IngestionMethod records which input field a translation started from.
type IngestionMethod string

const (
	IngestionURL        IngestionMethod = "url"
	IngestionSourceText IngestionMethod = "sourceText"
)

// ModelsUsed names the two models the AI path invoked.
type ModelsUsed struct {
	Classification string `json:"classification" yaml:"classification"`
	Extraction     string `json:"extraction" yaml:"extraction"`
}

// Processing is the timing breakdown of one translation. AIProvider and
// ModelsUsed are set only when the AI path produced the item.
type Processing struct {
	ExtractionTimeMs  int64           `json:"extractionTimeMs" yaml:"extraction_time_ms"`
	TranslationTimeMs int64           `json:"translationTimeMs" yaml:"translation_time_ms"`
	TotalTimeMs       int64           `json:"totalTimeMs" yaml:"total_time_ms"`
	IngestionMethod   IngestionMethod `json:"ingestionMethod" yaml:"ingestion_method"`
	AIProvider        string          `json:"aiProvider,omitempty" yaml:"ai_provider,omitempty"`
	ModelsUsed        *ModelsUsed     `json:"modelsUsed,omitempty" yaml:"models_used,omitempty"`
}

// TranslationResult is the outcome of one translation request.
type TranslationResult struct {
	Item             Item             `json:"item" yaml:"item"`
	Confidence       float64          `json:"confidence" yaml:"confidence"`
	ExtractedContent ExtractedContent `json:"extractedContent" yaml:"extracted_content"`
	Processing       Processing       `json:"processing" yaml:"processing"`
}
