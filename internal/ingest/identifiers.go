// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"net/url"
	"regexp"
	"strings"
)

// Metadata extension keys set by ingestion.
const (
	ExtraDOI      = "doi"
	ExtraArxivID  = "arxivId"
	ExtraSiteName = "siteName"
)

// doiPattern finds a DOI such as "10.1145/1234567.1234568" inside text.
var doiPattern = regexp.MustCompile(`\b10\.\d{4,9}/[^\s"'<>]+`)

// arxivPattern finds a prefixed arXiv ID: "arXiv:2301.07041v2" or
// "arxiv.org/abs/2301.07041". Bare numbers are too ambiguous to match.
var arxivPattern = regexp.MustCompile(`(?i)\barxiv(?:\.org/(?:abs|pdf)/|[: ])(\d{4}\.\d{4,5}(?:v\d+)?)`)

// arxivHostPath matches the path of an arxiv.org abstract or PDF URL.
var arxivHostPath = regexp.MustCompile(`^/(?:abs|pdf)/(\d{4}\.\d{4,5}(?:v\d+)?)`)

// FindDOI returns the first DOI in s, with trailing punctuation removed.
func FindDOI(s string) string {
	m := doiPattern.FindString(s)
	return strings.TrimRight(m, ".,;:)]}")
}

// FindArxivID returns the first arXiv identifier in s.
func FindArxivID(s string) string {
	if m := arxivPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// identifiersFromURL reads a DOI or arXiv ID from well-known URL shapes:
// doi.org links and arxiv.org abstract and PDF pages.
func identifiersFromURL(raw string) (doi, arxivID string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch {
	case host == "doi.org" || host == "dx.doi.org":
		p, err := url.PathUnescape(strings.TrimPrefix(u.Path, "/"))
		if err == nil {
			doi = FindDOI(p)
		}
	case host == "arxiv.org" || host == "export.arxiv.org":
		if m := arxivHostPath.FindStringSubmatch(u.Path); m != nil {
			arxivID = m[1]
		}
	default:
		doi = FindDOI(u.Path)
	}
	return doi, arxivID
}
