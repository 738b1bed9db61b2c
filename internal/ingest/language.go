// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// minDetectRunes is the shortest text handed to the language detector.
const minDetectRunes = 40

// detectLanguages is the candidate set. Loading every lingua model costs
// several hundred megabytes, so the detector is limited to common languages
// of scholarly and web content.
var detectLanguages = []lingua.Language{
	lingua.English, lingua.German, lingua.French, lingua.Spanish,
	lingua.Italian, lingua.Portuguese, lingua.Dutch, lingua.Russian,
	lingua.Chinese, lingua.Japanese, lingua.Korean, lingua.Arabic,
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectLanguage returns the ISO 639-1 code of text, or "" when the text is
// too short or the detector is unsure.
func DetectLanguage(text string) string {
	sample := []rune(strings.TrimSpace(text))
	if len(sample) < minDetectRunes {
		return ""
	}
	if len(sample) > 2000 {
		sample = sample[:2000]
	}

	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectLanguages...).
			WithMinimumRelativeDistance(0.1).
			Build()
	})
	lang, ok := detector.DetectLanguageOf(string(sample))
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

// normalizeLanguage reduces a language tag such as "en-US" to "en".
func normalizeLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}
