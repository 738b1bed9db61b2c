// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// ItemType is the closed set of document-type labels a translation can
// produce. Values are the canonical camelCase names used by reference
// managers.
type ItemType string

const (
	ItemWebpage          ItemType = "webpage"
	ItemJournalArticle   ItemType = "journalArticle"
	ItemBook             ItemType = "book"
	ItemBookSection      ItemType = "bookSection"
	ItemDocument         ItemType = "document"
	ItemConferencePaper  ItemType = "conferencePaper"
	ItemThesis           ItemType = "thesis"
	ItemNewspaperArticle ItemType = "newspaperArticle"
	ItemMagazineArticle  ItemType = "magazineArticle"
	ItemBlogPost         ItemType = "blogPost"
	ItemForumPost        ItemType = "forumPost"
	ItemPodcast          ItemType = "podcast"
	ItemVideoRecording   ItemType = "videoRecording"
)

// AllItemTypes lists every label in declaration order.
var AllItemTypes = []ItemType{
	ItemWebpage,
	ItemJournalArticle,
	ItemBook,
	ItemBookSection,
	ItemDocument,
	ItemConferencePaper,
	ItemThesis,
	ItemNewspaperArticle,
	ItemMagazineArticle,
	ItemBlogPost,
	ItemForumPost,
	ItemPodcast,
	ItemVideoRecording,
}

// itemTypesByLower maps the lower-cased label to its canonical form.
var itemTypesByLower = func() map[string]ItemType {
	m := make(map[string]ItemType, len(AllItemTypes))
	for _, t := range AllItemTypes {
		m[strings.ToLower(string(t))] = t
	}
	return m
}()

// ParseItemType resolves a label case-insensitively and returns its
// canonical form.
func ParseItemType(s string) (ItemType, bool) {
	t, ok := itemTypesByLower[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// Creator is one contributor of an item. LastName is always set; when only a
// single display name is known it is stored whole in LastName.
type Creator struct {
	FirstName   string `json:"firstName,omitempty" yaml:"first_name,omitempty"`
	LastName    string `json:"lastName" yaml:"last_name"`
	CreatorType string `json:"creatorType" yaml:"creator_type"`
}

// Item is a validated bibliographic record. Base fields shared by every item
// type are struct fields; type-specific fields and anything else the model
// returned live in Fields.
type Item struct {
	ItemType     ItemType
	Title        string
	Creators     []Creator
	Date         string
	URL          string
	AccessDate   string
	AbstractNote string
	Tags         []string
	Notes        []string
	DateAdded    string
	DateModified string
	Fields       map[string]any
}

// Field returns a type-specific field as a string, or "" when absent or not
// a string.
func (it Item) Field(name string) string {
	s, _ := it.Fields[name].(string)
	return s
}

// SetField sets a type-specific field, allocating Fields on first use.
func (it *Item) SetField(name string, v any) {
	if it.Fields == nil {
		it.Fields = make(map[string]any)
	}
	it.Fields[name] = v
}

// ToMap flattens the item into the wire shape: one object with itemType,
// base fields and type-specific fields side by side.
func (it Item) ToMap() map[string]any {
	m := make(map[string]any, len(it.Fields)+12)
	maps.Copy(m, it.Fields)

	m["itemType"] = string(it.ItemType)
	m["title"] = it.Title
	creators := it.Creators
	if creators == nil {
		creators = []Creator{}
	}
	m["creators"] = creators
	tags := it.Tags
	if tags == nil {
		tags = []string{}
	}
	m["tags"] = tags

	setString := func(key, v string) {
		if v != "" {
			m[key] = v
		}
	}
	setString("date", it.Date)
	setString("url", it.URL)
	setString("accessDate", it.AccessDate)
	setString("abstractNote", it.AbstractNote)
	setString("dateAdded", it.DateAdded)
	setString("dateModified", it.DateModified)
	if len(it.Notes) > 0 {
		m["notes"] = it.Notes
	}
	return m
}

func (it Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(it.ToMap())
}

func (it Item) MarshalYAML() (any, error) {
	return it.ToMap(), nil
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Item{}
	str := func(key string, dst *string) error {
		v, ok := raw[key]
		if !ok {
			return nil
		}
		delete(raw, key)
		if err := json.Unmarshal(v, dst); err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		return nil
	}

	var itemType string
	for key, dst := range map[string]*string{
		"itemType":     &itemType,
		"title":        &out.Title,
		"date":         &out.Date,
		"url":          &out.URL,
		"accessDate":   &out.AccessDate,
		"abstractNote": &out.AbstractNote,
		"dateAdded":    &out.DateAdded,
		"dateModified": &out.DateModified,
	} {
		if err := str(key, dst); err != nil {
			return err
		}
	}
	if itemType != "" {
		t, ok := ParseItemType(itemType)
		if !ok {
			return fmt.Errorf("unknown item type %q", itemType)
		}
		out.ItemType = t
	}

	if v, ok := raw["creators"]; ok {
		delete(raw, "creators")
		if err := json.Unmarshal(v, &out.Creators); err != nil {
			return fmt.Errorf("field creators: %w", err)
		}
	}
	if v, ok := raw["tags"]; ok {
		delete(raw, "tags")
		if err := json.Unmarshal(v, &out.Tags); err != nil {
			return fmt.Errorf("field tags: %w", err)
		}
	}
	if v, ok := raw["notes"]; ok {
		delete(raw, "notes")
		if err := json.Unmarshal(v, &out.Notes); err != nil {
			return fmt.Errorf("field notes: %w", err)
		}
	}

	for key, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		out.SetField(key, val)
	}

	*it = out
	return nil
}
