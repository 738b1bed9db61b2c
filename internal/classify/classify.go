// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify picks the item type of extracted content with one model
// call. Only a bounded prefix of the body is sent.
package classify

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"github.com/pdiddy/translation-engine/internal/provider"
	"github.com/pdiddy/translation-engine/pkg/types"
)

// PrefixLength is the number of body characters sent to the model.
const PrefixLength = 1000

var systemPrompt = func() string {
	labels := make([]string, len(types.AllItemTypes))
	for i, t := range types.AllItemTypes {
		labels[i] = string(t)
	}
	return `You are a bibliographic classifier. Decide which kind of document the user's content is.

Answer with exactly one of these labels and nothing else (no punctuation, no explanation):
` + strings.Join(labels, "\n") + `

Guidance:
- journalArticle: peer-reviewed article in a journal, usually with a DOI, volume or issue
- conferencePaper: paper published in conference proceedings
- newspaperArticle and magazineArticle: articles from news outlets and magazines
- blogPost: an entry on a personal or company blog
- forumPost: a post or thread on a discussion forum
- webpage: any other web page
- document: a standalone report, manual or other file that fits nothing else`
}()

var userPromptTmpl = template.Must(template.New("classify").Parse(`Title: {{.Title}}
URL: {{.URL}}
Content type: {{.ContentType}}

Content (first {{.Limit}} characters):
{{.Prefix}}
`))

type promptData struct {
	Title       string
	URL         string
	ContentType string
	Limit       int
	Prefix      string
}

// BuildPrompt renders the classification prompt for content.
func BuildPrompt(content types.ExtractedContent) (provider.Prompt, error) {
	var buf bytes.Buffer
	err := userPromptTmpl.Execute(&buf, promptData{
		Title:       orUnknown(content.Title),
		URL:         orUnknown(content.URL),
		ContentType: orUnknown(content.ContentType),
		Limit:       PrefixLength,
		Prefix:      Prefix(content.Text, PrefixLength),
	})
	if err != nil {
		return provider.Prompt{}, err
	}
	return provider.Prompt{System: systemPrompt, User: buf.String()}, nil
}

// Classify asks the model for the item type of content. A reply outside the
// closed label set is an AIClassificationError.
func Classify(ctx context.Context, content types.ExtractedContent, model provider.ModelHandle) (types.ItemType, error) {
	prompt, err := BuildPrompt(content)
	if err != nil {
		return "", types.NewAIClassificationError(err, "rendering prompt")
	}

	reply, err := model.Invoke(ctx, prompt)
	if err != nil {
		return "", types.NewAIClassificationError(err, "model %s failed", model.Model())
	}

	label, ok := ParseLabel(reply)
	if !ok {
		return "", types.NewAIClassificationError(nil, "model %s returned unknown item type %q", model.Model(), truncate(reply, 80))
	}
	return label, nil
}

// ParseLabel normalizes a model reply and maps it onto the closed set.
// Surrounding whitespace, quotes, backticks and a trailing period are
// ignored; matching is case-insensitive.
func ParseLabel(reply string) (types.ItemType, bool) {
	s := strings.TrimSpace(reply)
	s = strings.Trim(s, "\"'`")
	s = strings.TrimSuffix(s, ".")
	s = strings.ToLower(strings.TrimSpace(s))
	return types.ParseItemType(s)
}

// Prefix returns the first n runes of s.
func Prefix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func truncate(s string, n int) string {
	p := Prefix(s, n)
	if len(p) < len(s) {
		return p + "..."
	}
	return p
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(unknown)"
	}
	return s
}
