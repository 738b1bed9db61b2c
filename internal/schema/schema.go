// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema is the item-type catalog: for every document type it knows
// the shared base fields, the type-specific fields and the permitted creator
// roles, and renders that knowledge as a JSON Schema for validation and as
// plain text for extraction prompts.
package schema

import (
	"fmt"
	"strings"

	"github.com/pdiddy/translation-engine/pkg/types"
)

// Kind is the JSON value kind of a field.
type Kind string

const (
	KindString       Kind = "string"
	KindStringArray  Kind = "array of strings"
	KindCreatorArray Kind = "array of creators"
)

// Field is one entry of a FieldSchema.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Base     bool
}

// FieldSchema is the full field set of one item type: base fields first, in
// a fixed order, followed by the type-specific fields.
type FieldSchema struct {
	ItemType     types.ItemType
	Fields       []Field
	CreatorTypes []string
}

// baseFields is shared by every item type. Title and creators are required:
// a present value of the wrong JSON kind fails validation instead of being
// coerced.
var baseFields = []Field{
	{Name: "title", Kind: KindString, Required: true, Base: true},
	{Name: "creators", Kind: KindCreatorArray, Required: true, Base: true},
	{Name: "date", Kind: KindString, Base: true},
	{Name: "url", Kind: KindString, Base: true},
	{Name: "accessDate", Kind: KindString, Base: true},
	{Name: "abstractNote", Kind: KindString, Base: true},
	{Name: "tags", Kind: KindStringArray, Base: true},
	{Name: "notes", Kind: KindStringArray, Base: true},
}

// BaseFields returns a copy of the base field set.
func BaseFields() []Field {
	out := make([]Field, len(baseFields))
	copy(out, baseFields)
	return out
}

// ItemTypes returns every item type the catalog describes.
func ItemTypes() []types.ItemType {
	out := make([]types.ItemType, len(types.AllItemTypes))
	copy(out, types.AllItemTypes)
	return out
}

// FieldsFor returns the field schema of label. Unknown labels yield an error.
func FieldsFor(label types.ItemType) (FieldSchema, error) {
	def, ok := catalog[label]
	if !ok {
		return FieldSchema{}, fmt.Errorf("unknown item type %q", label)
	}

	fs := FieldSchema{
		ItemType:     label,
		Fields:       BaseFields(),
		CreatorTypes: append([]string(nil), def.creatorTypes...),
	}
	for _, name := range def.fields {
		fs.Fields = append(fs.Fields, Field{Name: name, Kind: KindString})
	}
	return fs, nil
}

// Field looks up a field by name.
func (fs FieldSchema) Field(name string) (Field, bool) {
	for _, f := range fs.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns the field names in schema order.
func (fs FieldSchema) Names() []string {
	names := make([]string, len(fs.Fields))
	for i, f := range fs.Fields {
		names[i] = f.Name
	}
	return names
}

// PrimaryCreatorType is the role assigned to a creator whose role is missing
// or not permitted for this item type.
func (fs FieldSchema) PrimaryCreatorType() string {
	if len(fs.CreatorTypes) == 0 {
		return "author"
	}
	return fs.CreatorTypes[0]
}

// AllowsCreatorType reports whether role is permitted for this item type.
func (fs FieldSchema) AllowsCreatorType(role string) bool {
	for _, ct := range fs.CreatorTypes {
		if ct == role {
			return true
		}
	}
	return false
}

// JSONSchema renders the field schema as a draft 2020-12 JSON Schema
// document. Unknown properties are allowed.
func (fs FieldSchema) JSONSchema() map[string]any {
	props := make(map[string]any, len(fs.Fields)+1)
	var required []any
	props["itemType"] = map[string]any{"type": "string"}

	for _, f := range fs.Fields {
		switch f.Kind {
		case KindString:
			props[f.Name] = map[string]any{"type": "string"}
		case KindStringArray:
			props[f.Name] = map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			}
		case KindCreatorArray:
			roles := make([]any, len(fs.CreatorTypes))
			for i, ct := range fs.CreatorTypes {
				roles[i] = ct
			}
			props[f.Name] = map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"firstName":   map[string]any{"type": "string"},
						"lastName":    map[string]any{"type": "string", "minLength": 1},
						"creatorType": map[string]any{"enum": roles},
					},
					"required": []any{"lastName", "creatorType"},
				},
			}
		}
		if f.Required {
			required = append(required, f.Name)
		}
	}

	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": true,
	}
}

// Describe renders the field schema as plain-text formatting instructions for
// an extraction prompt, one line per field.
func (fs FieldSchema) Describe() string {
	var b strings.Builder
	for _, f := range fs.Fields {
		req := "optional"
		if f.Required {
			req = "required"
		}
		fmt.Fprintf(&b, "- %s (%s, %s)", f.Name, f.Kind, req)
		if hint, ok := fieldHints[f.Name]; ok {
			fmt.Fprintf(&b, ": %s", hint)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Allowed creatorType values: %s (use %q when unsure).\n",
		strings.Join(fs.CreatorTypes, ", "), fs.PrimaryCreatorType())
	return b.String()
}
