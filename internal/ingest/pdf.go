// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/pdiddy/translation-engine/pkg/types"
)

// pdfMagic starts every PDF file.
var pdfMagic = []byte("%PDF-")

// parsePDF extracts the plain text of every page and the title, author and
// creation date of the document information dictionary. The parser panics
// on some malformed files; those panics become PdfParseErrors.
func parsePDF(body []byte) (content types.ExtractedContent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = types.NewPDFParseError(fmt.Errorf("%v", r), "malformed PDF")
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return types.ExtractedContent{}, types.NewPDFParseError(err, "opening PDF")
	}

	var b strings.Builder
	pages := r.NumPage()
	failed := 0
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := pageText(page)
		if err != nil {
			failed++
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}

	text := normalizeText(b.String())
	if text == "" {
		return types.ExtractedContent{}, types.NewPDFParseError(nil, "no extractable text in %d pages (%d failed)", pages, failed)
	}

	info := r.Trailer().Key("Info")
	md := &types.ContentMetadata{
		Author:        strings.TrimSpace(info.Key("Author").Text()),
		PublishedDate: pdfDate(info.Key("CreationDate").Text()),
	}
	if subject := strings.TrimSpace(info.Key("Subject").Text()); subject != "" {
		md.Excerpt = subject
	}

	return types.ExtractedContent{
		Text:        text,
		Title:       strings.TrimSpace(info.Key("Title").Text()),
		ContentType: types.ContentTypePDF,
		Metadata:    md,
	}, nil
}

// pageText isolates a single page so one bad content stream does not lose
// the whole document.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page text: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

// pdfDate turns a PDF date string ("D:20230115093000Z") into YYYY-MM-DD,
// or YYYY when only the year is present.
func pdfDate(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "D:")
	if len(s) < 4 || !allDigits(s[:4]) {
		return ""
	}
	if len(s) >= 8 && allDigits(s[4:8]) {
		return s[:4] + "-" + s[4:6] + "-" + s[6:8]
	}
	return s[:4]
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
