// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translator

import (
	"strings"

	"github.com/pdiddy/translation-engine/pkg/types"
)

// FallbackConfidence is the fixed score of an item produced without a model.
const FallbackConfidence = 0.3

// Signal weights of Score. The result is a heuristic, not a calibrated
// probability.
const (
	baseScore          = 0.5
	weightTitle        = 0.2
	weightCreators     = 0.15
	weightDate         = 0.1
	weightURL          = 0.05
	weightContentTitle = 0.1
	weightAuthor       = 0.1
	weightPublished    = 0.1
)

// Score rates an AI-produced item from 0 to 1 by counting the signals
// present in the item and in the content it came from.
func Score(content types.ExtractedContent, item types.Item) float64 {
	score := baseScore
	add := func(present bool, w float64) {
		if present {
			score += w
		}
	}
	add(present(item.Title), weightTitle)
	add(len(item.Creators) > 0, weightCreators)
	add(present(item.Date), weightDate)
	add(present(item.URL), weightURL)
	add(present(content.Title), weightContentTitle)
	add(present(content.Author()), weightAuthor)
	add(present(content.PublishedDate()), weightPublished)
	return min(score, 1.0)
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
