// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bufio"
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/pdiddy/translation-engine/pkg/types"
)

// parseHTML extracts the article text with readability and reads citation,
// Open Graph and Dublin Core meta tags with goquery. Meta tags take
// precedence over readability's guesses because publishers set them for
// citation managers.
func parseHTML(body []byte, pageURL *url.URL) (types.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return types.ExtractedContent{}, types.NewContentExtractionError(err, "parsing HTML")
	}
	meta := readMeta(doc)

	var article readability.Article
	if pageURL != nil {
		parser := readability.NewParser()
		article, err = parser.Parse(bytes.NewReader(body), pageURL)
		if err != nil {
			article = readability.Article{}
		}
	}

	text := normalizeText(article.TextContent)
	if text == "" {
		text = normalizeText(doc.Find("body").Text())
	}
	if text == "" {
		return types.ExtractedContent{}, types.NewContentExtractionError(nil, "page has no readable text")
	}

	md := &types.ContentMetadata{
		Author: firstNonEmpty(
			strings.Join(meta.all("citation_author"), "; "),
			meta.get("dc.creator"),
			article.Byline,
			meta.get("author"),
		),
		PublishedDate: firstNonEmpty(
			meta.get("citation_publication_date"),
			meta.get("citation_date"),
			meta.get("article:published_time"),
			meta.get("dc.date"),
		),
		Excerpt: firstNonEmpty(
			article.Excerpt,
			meta.get("description"),
			meta.get("og:description"),
		),
		Language: normalizeLanguage(firstNonEmpty(
			attr(doc.Find("html"), "lang"),
			meta.get("citation_language"),
			meta.get("content-language"),
		)),
	}
	if md.PublishedDate == "" && article.PublishedTime != nil {
		md.PublishedDate = article.PublishedTime.Format("2006-01-02")
	}
	setExtra(md, ExtraSiteName, firstNonEmpty(meta.get("og:site_name"), article.SiteName))
	setExtra(md, ExtraDOI, FindDOI(firstNonEmpty(meta.get("citation_doi"), meta.get("dc.identifier"))))
	setExtra(md, ExtraArxivID, meta.get("citation_arxiv_id"))
	for _, key := range []string{"citation_journal_title", "citation_conference_title", "citation_publisher", "citation_volume", "citation_issue", "citation_isbn"} {
		setExtra(md, key, meta.get(key))
	}

	return types.ExtractedContent{
		Text: text,
		Title: firstNonEmpty(
			meta.get("citation_title"),
			meta.get("og:title"),
			meta.get("dc.title"),
			article.Title,
			doc.Find("title").First().Text(),
		),
		ContentType: types.ContentTypeHTML,
		Metadata:    md,
	}, nil
}

// metaTags maps lower-cased name/property attributes to their contents in
// document order.
type metaTags map[string][]string

func readMeta(doc *goquery.Document) metaTags {
	m := metaTags{}
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key := firstNonEmpty(attr(s, "name"), attr(s, "property"), attr(s, "http-equiv"))
		val := attr(s, "content")
		if key == "" || val == "" {
			return
		}
		key = strings.ToLower(key)
		m[key] = append(m[key], val)
	})
	return m
}

func (m metaTags) get(key string) string {
	if v := m[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (m metaTags) all(key string) []string {
	return m[key]
}

func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return strings.TrimSpace(v)
}

// normalizeText trims every line, drops blank lines and collapses runs of
// spaces inside a line.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), " ")
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func setExtra(md *types.ContentMetadata, key, val string) {
	if val == "" {
		return
	}
	if md.Extra == nil {
		md.Extra = make(map[string]string)
	}
	md.Extra[key] = val
}
