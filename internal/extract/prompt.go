// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/internal/schema"
	"github.com/pdiddy/translation-engine/pkg/types"
)

// systemPromptTmpl carries the per-item-type instructions. It depends only
// on the item type, so backends with prompt caching can reuse it.
var systemPromptTmpl = template.Must(template.New("extract-system").Parse(`You are a bibliographic metadata extraction system. The user will send the text of a {{.ItemType}}. Extract its citation metadata.

Fields to extract:
{{.Fields}}
Rules:
- Respond with a single JSON object and nothing else. Do not wrap it in prose.
- Use the field names exactly as listed. Omit fields you cannot find; never invent values.
- creators is an array of objects with firstName, lastName and creatorType. Put a single-word or organizational name entirely in lastName.
- Strings only for scalar fields, including numbers such as volume or pages.
- tags and notes are arrays of strings.

Example response:
{"title": "Attention Is All You Need", "creators": [{"firstName": "Ashish", "lastName": "Vaswani", "creatorType": "{{.PrimaryCreator}}"}], "date": "2017-06-12"}
`))

var userPromptTmpl = template.Must(template.New("extract-user").Parse(`Title: {{.Title}}
URL: {{.URL}}
Content type: {{.ContentType}}

Content:
{{.Text}}
`))

type systemData struct {
	ItemType       types.ItemType
	Fields         string
	PrimaryCreator string
}

type userData struct {
	Title       string
	URL         string
	ContentType string
	Text        string
}

// BuildPrompt renders the extraction prompt for content under fs. The full
// body is embedded.
func BuildPrompt(content types.ExtractedContent, fs schema.FieldSchema) (provider.Prompt, error) {
	var sys bytes.Buffer
	err := systemPromptTmpl.Execute(&sys, systemData{
		ItemType:       fs.ItemType,
		Fields:         fs.Describe(),
		PrimaryCreator: fs.PrimaryCreatorType(),
	})
	if err != nil {
		return provider.Prompt{}, err
	}

	var usr bytes.Buffer
	err = userPromptTmpl.Execute(&usr, userData{
		Title:       orUnknown(content.Title),
		URL:         orUnknown(content.URL),
		ContentType: orUnknown(content.ContentType),
		Text:        content.Text,
	})
	if err != nil {
		return provider.Prompt{}, err
	}
	return provider.Prompt{System: sys.String(), User: usr.String()}, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "(unknown)"
	}
	return s
}
