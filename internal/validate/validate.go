// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks a model's extracted object against the field
// schema of its item type and repairs what it can.
//
// The rule is: reject only when the value is not a JSON object, or when a
// required base field (title, creators) is present with the wrong JSON
// kind. Everything else is coerced and recorded in the Report. Unknown
// fields pass through untouched. The item type always comes from the
// classifier, never from the model's payload.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdiddy/translation-engine/internal/logging"
	"github.com/pdiddy/translation-engine/internal/schema"
	"github.com/pdiddy/translation-engine/pkg/types"
)

// Report describes what validation found and changed.
type Report struct {
	// Strict is true when the object passed the schema check unchanged.
	Strict bool

	// Mismatch is the schema violation that triggered coercion, if any.
	Mismatch string

	// Coerced lists fields whose values were converted, and Dropped fields
	// whose values were discarded.
	Coerced []string
	Dropped []string
}

// Validator holds one compiled JSON Schema per item type. It is safe for
// concurrent use.
type Validator struct {
	schemas map[types.ItemType]*jsonschema.Schema
	log     *slog.Logger
}

// New compiles the schema of every item type.
func New() (*Validator, error) {
	v := &Validator{
		schemas: make(map[types.ItemType]*jsonschema.Schema, len(types.AllItemTypes)),
		log:     logging.For("validate"),
	}
	for _, label := range schema.ItemTypes() {
		fs, err := schema.FieldsFor(label)
		if err != nil {
			return nil, err
		}
		compiled, err := compile(string(label), fs.JSONSchema())
		if err != nil {
			return nil, fmt.Errorf("compiling schema for %s: %w", label, err)
		}
		v.schemas[label] = compiled
	}
	return v, nil
}

func compile(name string, doc map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	url := name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile(url)
}

// Validate turns raw into an Item of type label. An AIValidationError is
// returned only for the structural failures described in the package doc.
func (v *Validator) Validate(raw any, label types.ItemType) (types.Item, Report, error) {
	fs, err := schema.FieldsFor(label)
	if err != nil {
		return types.Item{}, Report{}, types.NewAIValidationError(err, "no field schema")
	}
	compiled, ok := v.schemas[label]
	if !ok {
		return types.Item{}, Report{}, types.NewAIValidationError(nil, "no compiled schema for %s", label)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return types.Item{}, Report{}, types.NewAIValidationError(nil, "expected a JSON object, got %s", jsonKind(raw))
	}

	for _, f := range fs.Fields {
		if !f.Required {
			continue
		}
		val, present := obj[f.Name]
		if !present || val == nil {
			continue
		}
		if !kindMatches(f.Kind, val) {
			return types.Item{}, Report{}, types.NewAIValidationError(nil,
				"required field %s must be %s, got %s", f.Name, f.Kind, jsonKind(val))
		}
	}

	var report Report
	if err := compiled.Validate(obj); err != nil {
		report.Mismatch = err.Error()
		v.log.Warn("validate.coerced", "item_type", label, "mismatch", report.Mismatch)
	} else {
		report.Strict = true
	}

	item := coerce(obj, fs, &report)
	item.ItemType = label
	return item, report, nil
}

func kindMatches(kind schema.Kind, val any) bool {
	switch kind {
	case schema.KindString:
		_, ok := val.(string)
		return ok
	case schema.KindStringArray, schema.KindCreatorArray:
		_, ok := val.([]any)
		return ok
	}
	return false
}

// coerce maps obj onto an Item, converting values to their declared kind.
func coerce(obj map[string]any, fs schema.FieldSchema, r *Report) types.Item {
	var item types.Item

	for key, val := range obj {
		if key == "itemType" {
			continue
		}
		if val == nil {
			r.Dropped = append(r.Dropped, key)
			continue
		}

		f, known := fs.Field(key)
		if !known {
			item.SetField(key, val)
			continue
		}

		switch f.Kind {
		case schema.KindCreatorArray:
			item.Creators = coerceCreators(val, fs, r)
		case schema.KindStringArray:
			list, changed := coerceStringArray(val)
			if changed {
				r.Coerced = append(r.Coerced, key)
			}
			if key == "tags" {
				item.Tags = list
			} else if key == "notes" {
				item.Notes = list
			}
		case schema.KindString:
			s, changed, ok := coerceString(val)
			if !ok || s == "" {
				r.Dropped = append(r.Dropped, key)
				continue
			}
			if changed {
				r.Coerced = append(r.Coerced, key)
			}
			setString(&item, key, s)
		}
	}
	return item
}

func setString(item *types.Item, key, s string) {
	switch key {
	case "title":
		item.Title = s
	case "date":
		item.Date = s
	case "url":
		item.URL = s
	case "accessDate":
		item.AccessDate = s
	case "abstractNote":
		item.AbstractNote = s
	default:
		item.SetField(key, s)
	}
}

// coerceString converts scalars and string lists to a trimmed string.
func coerceString(val any) (s string, changed, ok bool) {
	switch t := val.(type) {
	case string:
		s = strings.TrimSpace(t)
		return s, s != t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true, true
	case bool:
		return strconv.FormatBool(t), true, true
	case []any:
		var parts []string
		for _, el := range t {
			if p, _, ok := coerceString(el); ok && p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, ", "), true, len(parts) > 0
	default:
		return "", false, false
	}
}

// coerceStringArray converts a list or a single scalar to a list of
// non-empty strings. A comma-separated string is split.
func coerceStringArray(val any) ([]string, bool) {
	switch t := val.(type) {
	case []any:
		out := make([]string, 0, len(t))
		changed := false
		for _, el := range t {
			s, c, ok := coerceString(el)
			if !ok || s == "" {
				changed = true
				continue
			}
			if _, isStr := el.(string); !isStr || c {
				changed = true
			}
			out = append(out, s)
		}
		return out, changed
	case string:
		var out []string
		for _, p := range strings.Split(t, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	default:
		if s, _, ok := coerceString(t); ok && s != "" {
			return []string{s}, true
		}
		return nil, true
	}
}

// coerceCreators repairs the creator list. Strings become single-name
// creators, a "name" key is read as lastName, a lone firstName moves to
// lastName, and unknown roles fall back to the item type's primary role.
// Entries with no name at all are dropped.
func coerceCreators(val any, fs schema.FieldSchema, r *Report) []types.Creator {
	list, ok := val.([]any)
	if !ok {
		r.Dropped = append(r.Dropped, "creators")
		return nil
	}

	creators := make([]types.Creator, 0, len(list))
	for i, el := range list {
		var c types.Creator
		switch t := el.(type) {
		case string:
			c.LastName = strings.TrimSpace(t)
			r.Coerced = append(r.Coerced, fmt.Sprintf("creators[%d]", i))
		case map[string]any:
			c.FirstName = stringField(t, "firstName")
			c.LastName = stringField(t, "lastName")
			c.CreatorType = stringField(t, "creatorType")
			if c.LastName == "" {
				if name := stringField(t, "name"); name != "" {
					c.LastName = name
					r.Coerced = append(r.Coerced, fmt.Sprintf("creators[%d].name", i))
				}
			}
			if c.LastName == "" && c.FirstName != "" {
				c.LastName, c.FirstName = c.FirstName, ""
				r.Coerced = append(r.Coerced, fmt.Sprintf("creators[%d].firstName", i))
			}
		}
		if c.LastName == "" {
			r.Dropped = append(r.Dropped, fmt.Sprintf("creators[%d]", i))
			continue
		}
		if !fs.AllowsCreatorType(c.CreatorType) {
			if c.CreatorType != "" {
				r.Coerced = append(r.Coerced, fmt.Sprintf("creators[%d].creatorType", i))
			}
			c.CreatorType = fs.PrimaryCreatorType()
		}
		creators = append(creators, c)
	}
	return creators
}

func stringField(m map[string]any, key string) string {
	s, _, ok := coerceString(m[key])
	if !ok {
		return ""
	}
	return s
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
