// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package csl

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pdiddy/translation-engine/pkg/types"
)

func TestFromItemJournalArticle(t *testing.T) {
	it := types.Item{
		ItemType: types.ItemJournalArticle,
		Title:    "Attention Is All You Need",
		Creators: []types.Creator{
			{FirstName: "Ashish", LastName: "Vaswani", CreatorType: "author"},
			{LastName: "Google Brain", CreatorType: "author"},
			{FirstName: "Ed", LastName: "Itor", CreatorType: "editor"},
			{FirstName: "Con", LastName: "Tributor", CreatorType: "contributor"},
		},
		Date:         "2017-06-12",
		URL:          "https://arxiv.org/abs/1706.03762",
		AbstractNote: "The dominant sequence transduction models...",
	}
	it.SetField("publicationTitle", "NeurIPS")
	it.SetField("DOI", "10.48550/arXiv.1706.03762")
	it.SetField("volume", "30")
	it.SetField("pages", "5998-6008")

	c := FromItem("VASWANI1", it)

	if c.Type != "article-journal" {
		t.Errorf("Type = %q, want %q", c.Type, "article-journal")
	}
	if c.ContainerTitle != "NeurIPS" {
		t.Errorf("ContainerTitle = %q, want %q", c.ContainerTitle, "NeurIPS")
	}
	if c.DOI != "10.48550/arXiv.1706.03762" || c.Volume != "30" || c.Page != "5998-6008" {
		t.Errorf("DOI/Volume/Page = %q/%q/%q", c.DOI, c.Volume, c.Page)
	}
	if len(c.Author) != 2 {
		t.Fatalf("len(Author) = %d, want 2", len(c.Author))
	}
	if c.Author[0] != (Name{Family: "Vaswani", Given: "Ashish"}) {
		t.Errorf("Author[0] = %+v", c.Author[0])
	}
	if c.Author[1] != (Name{Literal: "Google Brain"}) {
		t.Errorf("Author[1] = %+v, want literal", c.Author[1])
	}
	if len(c.Editor) != 1 {
		t.Errorf("len(Editor) = %d, want 1", len(c.Editor))
	}
	if c.Issued == nil || len(c.Issued.DateParts) != 1 || c.Issued.DateParts[0][0] != 2017 || c.Issued.DateParts[0][2] != 12 {
		t.Errorf("Issued = %+v, want 2017-06-12", c.Issued)
	}
}

func TestTypeMapping(t *testing.T) {
	for _, it := range types.AllItemTypes {
		if _, ok := typeMap[it]; !ok {
			t.Errorf("item type %s has no CSL type", it)
		}
	}
	if got := Type("hologram"); got != "document" {
		t.Errorf("Type(unknown) = %q, want document", got)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in    string
		parts []int
		raw   string
	}{
		{"2017-06-12", []int{2017, 6, 12}, ""},
		{"2017/06/12", []int{2017, 6, 12}, ""},
		{"2024-03-01T10:00:00Z", []int{2024, 3, 1}, ""},
		{"June 12, 2017", []int{2017, 6, 12}, ""},
		{"12 Jun 2017", []int{2017, 6, 12}, ""},
		{"2017-06", []int{2017, 6}, ""},
		{"Spring 2019", []int{2019}, ""},
		{"n.d.", nil, "n.d."},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d := ParseDate(tt.in)
			if d == nil {
				t.Fatal("ParseDate returned nil")
			}
			if tt.raw != "" {
				if d.Raw != tt.raw {
					t.Errorf("Raw = %q, want %q", d.Raw, tt.raw)
				}
				return
			}
			if len(d.DateParts) != 1 {
				t.Fatalf("DateParts = %v", d.DateParts)
			}
			got := d.DateParts[0]
			if len(got) != len(tt.parts) {
				t.Fatalf("parts = %v, want %v", got, tt.parts)
			}
			for i := range got {
				if got[i] != tt.parts[i] {
					t.Errorf("parts = %v, want %v", got, tt.parts)
				}
			}
		})
	}
	if ParseDate("  ") != nil {
		t.Error("blank date should be nil")
	}
}

func TestWriteYAML(t *testing.T) {
	it := types.Item{ItemType: types.ItemWebpage, Title: "A Page", URL: "https://example.com"}
	var buf bytes.Buffer
	if err := WriteYAML([]Item{FromItem("PAGE0001", it)}, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"id: PAGE0001", "type: webpage", "title: A Page", "URL: https://example.com"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "author") {
		t.Errorf("empty author list should be omitted:\n%s", out)
	}
}

func TestWriteJSON(t *testing.T) {
	it := types.Item{ItemType: types.ItemBook, Title: "A Book", Date: "1999"}
	var buf bytes.Buffer
	if err := WriteJSON([]Item{FromItem("BOOK0001", it)}, &buf); err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 1 || decoded[0]["type"] != "book" {
		t.Fatalf("decoded = %v", decoded)
	}
	issued, ok := decoded[0]["issued"].(map[string]any)
	if !ok {
		t.Fatalf("issued missing: %v", decoded[0])
	}
	if _, ok := issued["date-parts"]; !ok {
		t.Errorf("issued has no date-parts: %v", issued)
	}
}
