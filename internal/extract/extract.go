// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract asks a model for the bibliographic fields of a document
// whose item type is already known, and parses the JSON reply.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/internal/schema"
	"github.com/pdiddy/translation-engine/pkg/types"
)

// ErrEmptyFence is returned by ParseJSONPayload for a code fence with
// nothing inside.
var ErrEmptyFence = errors.New("code fence contains no JSON")

// Extract sends the full content and the field schema of label to the model
// and returns the decoded JSON reply. The model is invoked exactly once; any
// failure is an AIExtractionError.
func Extract(ctx context.Context, content types.ExtractedContent, label types.ItemType, model provider.ModelHandle) (any, error) {
	fs, err := schema.FieldsFor(label)
	if err != nil {
		return nil, types.NewAIExtractionError(err, "no field schema")
	}

	prompt, err := BuildPrompt(content, fs)
	if err != nil {
		return nil, types.NewAIExtractionError(err, "rendering prompt")
	}

	reply, err := model.Invoke(ctx, prompt)
	if err != nil {
		return nil, types.NewAIExtractionError(err, "model %s failed", model.Model())
	}

	raw, err := ParseJSONPayload(reply)
	if err != nil {
		return nil, types.NewAIExtractionError(err, "model %s returned unparseable output", model.Model())
	}
	return raw, nil
}

// ParseJSONPayload decodes a JSON value from free-form model output. The
// trimmed reply is decoded as-is first; only when that fails is a
// surrounding Markdown code fence, with or without a language tag, stripped.
func ParseJSONPayload(text string) (any, error) {
	if v, err := decodeOne(strings.TrimSpace(text)); err == nil {
		return v, nil
	}

	body, fenced := stripFence(text)
	if fenced && body == "" {
		return nil, ErrEmptyFence
	}
	return decodeOne(body)
}

// decodeOne decodes exactly one JSON value from s.
func decodeOne(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

// stripFence returns the trimmed inside of the first ``` fence in text, or
// the trimmed text when there is no fence.
func stripFence(text string) (string, bool) {
	s := strings.TrimSpace(text)
	start := strings.Index(s, "```")
	if start < 0 {
		return s, false
	}

	rest := s[start+3:]
	// Drop a language tag such as "json" on the opening line.
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		tag := strings.TrimSpace(rest[:nl])
		if tag == "" || isLanguageTag(tag) {
			rest = rest[nl+1:]
		}
	} else {
		rest = strings.TrimPrefix(rest, "json")
	}

	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}
