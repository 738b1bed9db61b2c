// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "The committee published its annual report on climate adaptation policies this morning.", "en"},
		{"german", "Der Ausschuss hat heute Morgen seinen Jahresbericht über die Anpassung an den Klimawandel veröffentlicht.", "de"},
		{"french", "Le comité a publié ce matin son rapport annuel sur les politiques d'adaptation au climat.", "fr"},
		{"too short", "Hello there", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.text))
		})
	}
}

func TestNormalizeLanguage(t *testing.T) {
	assert.Equal(t, "en", normalizeLanguage("en-US"))
	assert.Equal(t, "pt", normalizeLanguage(" pt_BR "))
	assert.Equal(t, "de", normalizeLanguage("DE"))
	assert.Equal(t, "", normalizeLanguage(""))
}
