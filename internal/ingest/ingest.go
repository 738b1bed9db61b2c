// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest turns a URL or pasted text into ExtractedContent. HTML
// goes through readability and meta-tag parsing, PDFs through a pure-Go
// PDF reader, and plain text passes through. Fetched bodies can be cached.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/translation-engine/internal/httputil"
	"github.com/pdiddy/translation-engine/internal/logging"
	"github.com/pdiddy/translation-engine/pkg/types"
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "translation-engine/1.0 (+https://github.com/pdiddy/translation-engine)"

// DefaultMaxBodyBytes caps a fetched body when Config.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 20 << 20

// maxTitleRunes bounds a title taken from the first line of plain text.
const maxTitleRunes = 200

// Config controls fetching.
type Config struct {
	Timeout      time.Duration
	MaxRetries   int
	UserAgent    string
	MaxBodyBytes int64
}

// Ingestor fetches and parses content. It is safe for concurrent use.
type Ingestor struct {
	cfg    Config
	client *http.Client
	cache  Cache
	log    *slog.Logger
}

// Option customizes an Ingestor.
type Option func(*Ingestor)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(in *Ingestor) { in.client = c }
}

// WithCache stores fetched bodies in c.
func WithCache(c Cache) Option {
	return func(in *Ingestor) { in.cache = c }
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(in *Ingestor) { in.log = l }
}

// New returns an Ingestor for cfg.
func New(cfg Config, opts ...Option) *Ingestor {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	in := &Ingestor{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    logging.For("ingest"),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// ExtractFromURL fetches rawURL and parses the body according to its
// content type. Transport failures and non-2xx statuses are UrlFetchErrors,
// unreadable PDFs PdfParseErrors, and empty or unsupported bodies
// ContentExtractionErrors.
func (in *Ingestor) ExtractFromURL(ctx context.Context, rawURL string) (types.ExtractedContent, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return types.ExtractedContent{}, types.NewURLFetchError(err, "invalid url %q", rawURL)
	}

	page, err := in.fetch(ctx, rawURL)
	if err != nil {
		return types.ExtractedContent{}, err
	}

	var content types.ExtractedContent
	switch kind := sniff(page.ContentType, page.Body); kind {
	case types.ContentTypePDF:
		content, err = parsePDF(page.Body)
	case types.ContentTypeHTML:
		content, err = parseHTML(page.Body, u)
	case types.ContentTypePlain:
		content, err = parsePlain(string(page.Body))
	default:
		err = types.NewContentExtractionError(nil, "unsupported content type %q", page.ContentType)
	}
	if err != nil {
		return types.ExtractedContent{}, err
	}

	content.URL = rawURL
	enrich(&content)
	in.log.Debug("ingest.url.ok", "url", u.Redacted(), "content_type", content.ContentType,
		"chars", len(content.Text), "cached", page.cached)
	return content, nil
}

// ExtractFromSourceText wraps pasted text. The title is its first non-empty
// line.
func (in *Ingestor) ExtractFromSourceText(_ context.Context, text string) (types.ExtractedContent, error) {
	content, err := parsePlain(text)
	if err != nil {
		return types.ExtractedContent{}, err
	}
	enrich(&content)
	return content, nil
}

func parsePlain(text string) (types.ExtractedContent, error) {
	if strings.TrimSpace(text) == "" {
		return types.ExtractedContent{}, types.NewContentExtractionError(nil, "text is empty")
	}
	return types.ExtractedContent{
		Text:        strings.TrimSpace(text),
		Title:       firstLine(text, maxTitleRunes),
		ContentType: types.ContentTypePlain,
	}, nil
}

// enrich fills identifiers and language that the parsers did not find.
func enrich(c *types.ExtractedContent) {
	if c.Metadata == nil {
		c.Metadata = &types.ContentMetadata{}
	}
	md := c.Metadata

	doi, arxivID := identifiersFromURL(c.URL)
	if md.Extra[ExtraDOI] == "" {
		setExtra(md, ExtraDOI, firstNonEmpty(doi, FindDOI(headOf(c.Text))))
	}
	if md.Extra[ExtraArxivID] == "" {
		setExtra(md, ExtraArxivID, firstNonEmpty(arxivID, FindArxivID(headOf(c.Text))))
	}
	if md.Language == "" {
		md.Language = DetectLanguage(c.Text)
	}
}

// headOf returns the start of a body, where identifiers are usually printed.
// The cut falls on a rune boundary.
func headOf(s string) string {
	const n = 4000
	if len(s) <= n {
		return s
	}
	i := n
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i]
}

func firstLine(text string, n int) string {
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > n {
			return string(r[:n])
		}
		return line
	}
	return ""
}

// fetched is one response body, as cached.
type fetched struct {
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
	cached      bool
}

func (in *Ingestor) fetch(ctx context.Context, rawURL string) (fetched, error) {
	if page, ok := in.cacheGet(ctx, rawURL); ok {
		return page, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fetched{}, types.NewURLFetchError(err, "creating request")
	}
	req.Header.Set("User-Agent", in.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf;q=0.9,text/plain;q=0.8,*/*;q=0.5")

	resp, err := httputil.DoWithRetry(ctx, in.client, req, in.cfg.MaxRetries)
	if err != nil {
		return fetched{}, types.NewURLFetchError(err, "GET %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fetched{}, types.NewURLFetchError(nil, "HTTP %d from %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, in.cfg.MaxBodyBytes+1))
	if err != nil {
		return fetched{}, types.NewURLFetchError(err, "reading body of %s", rawURL)
	}
	if int64(len(body)) > in.cfg.MaxBodyBytes {
		return fetched{}, types.NewContentExtractionError(nil, "body of %s exceeds %d bytes", rawURL, in.cfg.MaxBodyBytes)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fetched{}, types.NewContentExtractionError(nil, "empty body from %s", rawURL)
	}

	page := fetched{ContentType: resp.Header.Get("Content-Type"), Body: body}
	in.cacheSet(ctx, rawURL, page)
	return page, nil
}

// Cache failures are logged and otherwise ignored.
func (in *Ingestor) cacheGet(ctx context.Context, key string) (fetched, bool) {
	if in.cache == nil {
		return fetched{}, false
	}
	data, ok, err := in.cache.Get(ctx, key)
	if err != nil {
		in.log.Warn("ingest.cache.get_failed", "err", err)
		return fetched{}, false
	}
	if !ok {
		return fetched{}, false
	}
	var page fetched
	if err := json.Unmarshal(data, &page); err != nil {
		in.log.Warn("ingest.cache.corrupt", "err", err)
		return fetched{}, false
	}
	page.cached = true
	return page, true
}

func (in *Ingestor) cacheSet(ctx context.Context, key string, page fetched) {
	if in.cache == nil {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		in.log.Warn("ingest.cache.encode_failed", "err", err)
		return
	}
	if err := in.cache.Set(ctx, key, data); err != nil {
		in.log.Warn("ingest.cache.set_failed", "err", err)
	}
}

// sniff maps a Content-Type header to one of the supported kinds, falling
// back to the PDF signature and http.DetectContentType when the header is
// missing or generic.
func sniff(header string, body []byte) string {
	if bytes.HasPrefix(bytes.TrimLeft(body, " \t\r\n"), pdfMagic) {
		return types.ContentTypePDF
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil || mt == "" || mt == "application/octet-stream" || mt == "binary/octet-stream" {
		mt, _, _ = mime.ParseMediaType(http.DetectContentType(body))
	}
	switch mt {
	case "application/pdf", "application/x-pdf":
		return types.ContentTypePDF
	case "text/html", "application/xhtml+xml":
		return types.ContentTypeHTML
	case "text/plain", "text/markdown":
		return types.ContentTypePlain
	}
	return mt
}
