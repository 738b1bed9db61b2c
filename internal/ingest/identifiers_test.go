// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFindDOI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.1145/1234567.1234568", "10.1145/1234567.1234568"},
		{"See https://doi.org/10.1038/nature14539.", "10.1038/nature14539"},
		{"(doi:10.1000/xyz123)", "10.1000/xyz123"},
		{"version 10.2 of the manual", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FindDOI(tt.in))
		})
	}
}

func TestFindArxivID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"arXiv:2301.07041", "2301.07041"},
		{"Preprint arXiv:2301.07041v2 [cs.CL]", "2301.07041v2"},
		{"https://arxiv.org/abs/1706.03762", "1706.03762"},
		{"2301.07041", ""},
		{"no identifier", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FindArxivID(tt.in))
		})
	}
}

func TestIdentifiersFromURL(t *testing.T) {
	tests := []struct {
		url       string
		wantDOI   string
		wantArxiv string
	}{
		{"https://doi.org/10.1145/3292500.3330701", "10.1145/3292500.3330701", ""},
		{"https://dx.doi.org/10.1000%2Fxyz", "10.1000/xyz", ""},
		{"https://arxiv.org/abs/1706.03762v7", "", "1706.03762v7"},
		{"https://www.arxiv.org/pdf/2301.07041.pdf", "", "2301.07041"},
		{"https://journals.example.org/article/10.5555/12345", "10.5555/12345", ""},
		{"https://example.com/blog/post", "", ""},
		{"::not a url", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			doi, arxivID := identifiersFromURL(tt.url)
			assert.Equal(t, tt.wantDOI, doi)
			assert.Equal(t, tt.wantArxiv, arxivID)
		})
	}
}

func TestHeadOf_CutsOnRuneBoundary(t *testing.T) {
	short := "doi:10.1000/xyz123"
	assert.Equal(t, short, headOf(short))

	// 3999 ASCII bytes then a 2-byte rune straddling the 4000-byte cut.
	long := strings.Repeat("a", 3999) + "éé" + strings.Repeat("日", 10)
	head := headOf(long)
	assert.True(t, utf8.ValidString(head))
	assert.LessOrEqual(t, len(head), 4000)
	assert.True(t, strings.HasPrefix(long, head))
	assert.Equal(t, 3999, len(head))
}
