// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translator

import (
	"strings"
	"time"

	"github.com/pdiddy/translation-engine/pkg/types"
)

const (
	untitled        = "Untitled"
	abstractPrefix  = 300
	timestampLayout = time.RFC3339
)

// Fallback builds an item from content without a model. PDFs become
// documents, anything with a URL a webpage, and the rest documents.
func Fallback(content types.ExtractedContent, now time.Time) types.Item {
	item := types.Item{
		ItemType: fallbackItemType(content),
		Title:    strings.TrimSpace(content.Title),
		URL:      content.URL,
	}
	if item.Title == "" {
		item.Title = untitled
	}

	item.AbstractNote = strings.TrimSpace(content.Excerpt())
	if item.AbstractNote == "" {
		item.AbstractNote = Abbreviate(content.Text, abstractPrefix)
	}

	if author := strings.TrimSpace(content.Author()); author != "" {
		item.Creators = []types.Creator{{LastName: author, CreatorType: "author"}}
	}
	if lang := content.Language(); lang != "" {
		item.SetField("language", lang)
	}
	if date := content.PublishedDate(); date != "" {
		item.Date = date
	}

	stamp := now.UTC().Format(timestampLayout)
	item.AccessDate = stamp
	item.DateAdded = stamp
	item.DateModified = stamp
	return item
}

func fallbackItemType(content types.ExtractedContent) types.ItemType {
	switch {
	case content.ContentType == types.ContentTypePDF:
		return types.ItemDocument
	case content.URL != "":
		return types.ItemWebpage
	default:
		return types.ItemDocument
	}
}

// Abbreviate shortens s to about n characters, cutting at the last space
// before the limit when there is one, and appends "...". Whitespace runs are
// collapsed first.
func Abbreviate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:") + "..."
}
