// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/translation-engine/pkg/types"
)

func TestFieldsFor_EveryItemTypeHasBaseFields(t *testing.T) {
	base := map[string]bool{}
	for _, f := range BaseFields() {
		base[f.Name] = true
	}

	for _, label := range ItemTypes() {
		t.Run(string(label), func(t *testing.T) {
			fs, err := FieldsFor(label)
			require.NoError(t, err)

			for name := range base {
				f, ok := fs.Field(name)
				require.True(t, ok, "missing base field %s", name)
				assert.True(t, f.Base)
			}

			seen := map[string]bool{}
			for _, f := range fs.Fields {
				assert.False(t, seen[f.Name], "field %s declared twice", f.Name)
				seen[f.Name] = true
				if !f.Base {
					assert.False(t, base[f.Name], "type-specific field %s collides with a base field", f.Name)
				}
			}
			assert.NotEmpty(t, fs.CreatorTypes)
		})
	}
}

func TestFieldsFor_Unknown(t *testing.T) {
	_, err := FieldsFor(types.ItemType("hologram"))
	assert.Error(t, err)
}

func TestFieldsFor_TypeSpecific(t *testing.T) {
	tests := []struct {
		label types.ItemType
		field string
	}{
		{types.ItemJournalArticle, "DOI"},
		{types.ItemJournalArticle, "publicationTitle"},
		{types.ItemBook, "ISBN"},
		{types.ItemPodcast, "runningTime"},
		{types.ItemThesis, "university"},
	}
	for _, tt := range tests {
		fs, err := FieldsFor(tt.label)
		require.NoError(t, err)
		_, ok := fs.Field(tt.field)
		assert.True(t, ok, "%s should declare %s", tt.label, tt.field)
	}

	fs, err := FieldsFor(types.ItemWebpage)
	require.NoError(t, err)
	_, ok := fs.Field("ISBN")
	assert.False(t, ok)
}

func TestPrimaryCreatorType(t *testing.T) {
	fs, err := FieldsFor(types.ItemVideoRecording)
	require.NoError(t, err)
	assert.Equal(t, "director", fs.PrimaryCreatorType())
	assert.True(t, fs.AllowsCreatorType("castMember"))
	assert.False(t, fs.AllowsCreatorType("author"))

	fs, err = FieldsFor(types.ItemBook)
	require.NoError(t, err)
	assert.Equal(t, "author", fs.PrimaryCreatorType())
}

func TestJSONSchema(t *testing.T) {
	fs, err := FieldsFor(types.ItemJournalArticle)
	require.NoError(t, err)

	doc := fs.JSONSchema()
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, true, doc["additionalProperties"])
	assert.ElementsMatch(t, []any{"title", "creators"}, doc["required"])

	props := doc["properties"].(map[string]any)
	assert.Contains(t, props, "DOI")
	assert.Contains(t, props, "itemType")
	creators := props["creators"].(map[string]any)
	assert.Equal(t, "array", creators["type"])
}

func TestDescribe(t *testing.T) {
	fs, err := FieldsFor(types.ItemBook)
	require.NoError(t, err)

	desc := fs.Describe()
	assert.Contains(t, desc, "- title (string, required)")
	assert.Contains(t, desc, "- creators (array of creators, required)")
	assert.Contains(t, desc, "- ISBN (string, optional)")
	assert.Contains(t, desc, "seriesEditor")
	assert.Equal(t, len(fs.Fields)+1, strings.Count(desc, "\n"))
}
