// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package csl renders items as CSL (Citation Style Language) JSON or YAML
// so they can be consumed by Pandoc and reference managers.
package csl

import (
	"encoding/json"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/translation-engine/pkg/types"
)

// Item is a bibliographic entry in CSL-JSON/CSL-YAML shape.
type Item struct {
	ID              string `json:"id" yaml:"id"`
	Type            string `json:"type" yaml:"type"`
	Title           string `json:"title" yaml:"title"`
	Author          []Name `json:"author,omitempty" yaml:"author,omitempty"`
	Editor          []Name `json:"editor,omitempty" yaml:"editor,omitempty"`
	Translator      []Name `json:"translator,omitempty" yaml:"translator,omitempty"`
	ContainerAuthor []Name `json:"container-author,omitempty" yaml:"container-author,omitempty"`
	Director        []Name `json:"director,omitempty" yaml:"director,omitempty"`
	ContainerTitle  string `json:"container-title,omitempty" yaml:"container-title,omitempty"`
	Publisher       string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublisherPlace  string `json:"publisher-place,omitempty" yaml:"publisher-place,omitempty"`
	Event           string `json:"event,omitempty" yaml:"event,omitempty"`
	Genre           string `json:"genre,omitempty" yaml:"genre,omitempty"`
	Volume          string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue           string `json:"issue,omitempty" yaml:"issue,omitempty"`
	Page            string `json:"page,omitempty" yaml:"page,omitempty"`
	NumberOfPages   string `json:"number-of-pages,omitempty" yaml:"number-of-pages,omitempty"`
	Edition         string `json:"edition,omitempty" yaml:"edition,omitempty"`
	Abstract        string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Language        string `json:"language,omitempty" yaml:"language,omitempty"`
	DOI             string `json:"DOI,omitempty" yaml:"DOI,omitempty"`
	ISBN            string `json:"ISBN,omitempty" yaml:"ISBN,omitempty"`
	ISSN            string `json:"ISSN,omitempty" yaml:"ISSN,omitempty"`
	URL             string `json:"URL,omitempty" yaml:"URL,omitempty"`
	Issued          *Date  `json:"issued,omitempty" yaml:"issued,omitempty"`
	Accessed        *Date  `json:"accessed,omitempty" yaml:"accessed,omitempty"`
}

// Name is a person's name in CSL format.
type Name struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// Date is a CSL date. Raw carries dates that could not be split into parts.
type Date struct {
	DateParts [][]int `json:"date-parts,omitempty" yaml:"date-parts,omitempty"`
	Raw       string  `json:"raw,omitempty" yaml:"raw,omitempty"`
}

var typeMap = map[types.ItemType]string{
	types.ItemWebpage:          "webpage",
	types.ItemJournalArticle:   "article-journal",
	types.ItemBook:             "book",
	types.ItemBookSection:      "chapter",
	types.ItemDocument:         "document",
	types.ItemConferencePaper:  "paper-conference",
	types.ItemThesis:           "thesis",
	types.ItemNewspaperArticle: "article-newspaper",
	types.ItemMagazineArticle:  "article-magazine",
	types.ItemBlogPost:         "post-weblog",
	types.ItemForumPost:        "post",
	types.ItemPodcast:          "song",
	types.ItemVideoRecording:   "motion_picture",
}

// containerFields are the item fields that name the enclosing work, in
// order of preference.
var containerFields = []string{
	"publicationTitle", "bookTitle", "proceedingsTitle", "websiteTitle",
	"blogTitle", "forumTitle", "seriesTitle",
}

// FromItem converts an item to CSL. id becomes the citation key.
func FromItem(id string, it types.Item) Item {
	out := Item{
		ID:             id,
		Type:           Type(it.ItemType),
		Title:          it.Title,
		Abstract:       it.AbstractNote,
		URL:            it.URL,
		Publisher:      firstField(it, "publisher", "university"),
		PublisherPlace: it.Field("place"),
		Event:          it.Field("conferenceName"),
		Genre:          firstField(it, "thesisType", "websiteType", "postType"),
		Volume:         it.Field("volume"),
		Issue:          it.Field("issue"),
		Page:           it.Field("pages"),
		NumberOfPages:  it.Field("numPages"),
		Edition:        it.Field("edition"),
		Language:       it.Field("language"),
		DOI:            it.Field("DOI"),
		ISBN:           it.Field("ISBN"),
		ISSN:           it.Field("ISSN"),
		ContainerTitle: firstField(it, containerFields...),
		Issued:         ParseDate(it.Date),
		Accessed:       ParseDate(it.AccessDate),
	}

	for _, c := range it.Creators {
		name := toName(c)
		switch c.CreatorType {
		case "editor", "seriesEditor":
			out.Editor = append(out.Editor, name)
		case "translator":
			out.Translator = append(out.Translator, name)
		case "bookAuthor":
			out.ContainerAuthor = append(out.ContainerAuthor, name)
		case "director":
			out.Director = append(out.Director, name)
		case "contributor", "commenter", "reviewedAuthor", "guest", "castMember", "producer", "scriptwriter":
			// CSL has no general-purpose role for these.
		default:
			out.Author = append(out.Author, name)
		}
	}
	return out
}

// Type maps an item type to its CSL type.
func Type(t types.ItemType) string {
	if s, ok := typeMap[t]; ok {
		return s
	}
	return "document"
}

// WriteYAML writes items as a CSL-YAML list to w.
func WriteYAML(items []Item, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// WriteJSON writes items as a CSL-JSON array to w.
func WriteJSON(items []Item, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// toName maps a creator to a CSL name. A creator with only a last name is
// an institution or a mononym and uses the literal form.
func toName(c types.Creator) Name {
	if strings.TrimSpace(c.FirstName) == "" {
		return Name{Literal: strings.TrimSpace(c.LastName)}
	}
	return Name{Family: strings.TrimSpace(c.LastName), Given: strings.TrimSpace(c.FirstName)}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

var (
	yearMonthPattern = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})$`)
	yearPattern      = regexp.MustCompile(`\b(1[5-9]\d{2}|2\d{3})\b`)
)

// ParseDate splits a free-form date into CSL date-parts. Unparseable
// strings with a recognizable year keep the year; anything else is raw.
func ParseDate(s string) *Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &Date{DateParts: [][]int{{t.Year(), int(t.Month()), t.Day()}}}
		}
	}
	if m := yearMonthPattern.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		if mo >= 1 && mo <= 12 {
			return &Date{DateParts: [][]int{{y, mo}}}
		}
	}
	if m := yearPattern.FindString(s); m != "" {
		y, _ := strconv.Atoi(m)
		return &Date{DateParts: [][]int{{y}}}
	}
	return &Date{Raw: s}
}

func firstField(it types.Item, names ...string) string {
	for _, n := range names {
		if v := it.Field(n); v != "" {
			return v
		}
	}
	return ""
}
