// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider abstracts the AI backends behind one adapter contract.
// It holds the static capability table, the per-backend configuration
// validator and the registry that maps backend names to adapters.
// Concrete adapters live in the subpackages; builtin wires them together.
package provider

import (
	"context"

	"github.com/pdiddy/translation-engine/pkg/types"
)

// Prompt is one model request. System carries the stable instructions of a
// stage and User the per-request content, so backends that support prompt
// caching can cache the former.
type Prompt struct {
	System string
	User   string
}

// ModelHandle is a configured model bound to one backend. Invoke sends a
// prompt and returns the raw text of the reply. Creating a handle performs
// no network I/O.
type ModelHandle interface {
	Invoke(ctx context.Context, p Prompt) (string, error)
	Model() string
}

// Adapter wraps one backend. Implementations must be safe for concurrent use.
type Adapter interface {
	// Name is the backend tag this adapter serves.
	Name() types.ProviderName

	// Available reports whether the adapter can construct model handles in
	// this binary.
	Available() bool

	// ValidateConfig returns a ConfigurationError naming the first violated
	// invariant of cfg, or nil.
	ValidateConfig(cfg types.AIProviderConfig) error

	CreateClassificationModel(cfg types.AIProviderConfig) (ModelHandle, error)
	CreateExtractionModel(cfg types.AIProviderConfig) (ModelHandle, error)

	// ModelCapabilities looks up static metadata for a model identifier.
	ModelCapabilities(model string) (Capabilities, bool)
}

// ResolveModels returns the classification and extraction model identifiers
// of cfg, substituting the backend defaults for empty fields.
func ResolveModels(cfg types.AIProviderConfig) (classification, extraction string) {
	c := cfg.Common()
	def := DefaultModels(cfg.Provider())
	classification, extraction = c.ClassificationModel, c.ExtractionModel
	if classification == "" {
		classification = def.Classification
	}
	if extraction == "" {
		extraction = def.Extraction
	}
	return classification, extraction
}
