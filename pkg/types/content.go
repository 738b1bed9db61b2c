// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Content type tags produced by ingestion.
const (
	ContentTypeHTML  = "text/html"
	ContentTypePDF   = "application/pdf"
	ContentTypePlain = "text/plain"
)

// ContentMetadata carries optional descriptive fields found during ingestion.
// Extra holds free-form extension fields (e.g. "doi", "arxivId", "siteName").
type ContentMetadata struct {
	Author        string            `json:"author,omitempty" yaml:"author,omitempty"`
	PublishedDate string            `json:"publishedDate,omitempty" yaml:"published_date,omitempty"`
	Excerpt       string            `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Language      string            `json:"language,omitempty" yaml:"language,omitempty"`
	Extra         map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// ExtractedContent is the output of ingestion and the input of every
// pipeline stage. It is created once per request and never mutated after
// the translator has applied the content-length cap.
type ExtractedContent struct {
	Text        string           `json:"text" yaml:"text"`
	Title       string           `json:"title,omitempty" yaml:"title,omitempty"`
	URL         string           `json:"url,omitempty" yaml:"url,omitempty"`
	ContentType string           `json:"contentType" yaml:"content_type"`
	Metadata    *ContentMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Author returns the metadata author or "".
func (c ExtractedContent) Author() string {
	if c.Metadata == nil {
		return ""
	}
	return c.Metadata.Author
}

// PublishedDate returns the metadata published date or "".
func (c ExtractedContent) PublishedDate() string {
	if c.Metadata == nil {
		return ""
	}
	return c.Metadata.PublishedDate
}

// Excerpt returns the metadata excerpt or "".
func (c ExtractedContent) Excerpt() string {
	if c.Metadata == nil {
		return ""
	}
	return c.Metadata.Excerpt
}

// Language returns the metadata language or "".
func (c ExtractedContent) Language() string {
	if c.Metadata == nil {
		return ""
	}
	return c.Metadata.Language
}

// ExtraField returns a free-form metadata field or "".
func (c ExtractedContent) ExtraField(key string) string {
	if c.Metadata == nil || c.Metadata.Extra == nil {
		return ""
	}
	return c.Metadata.Extra[key]
}
