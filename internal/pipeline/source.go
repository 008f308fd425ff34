package pipeline

import (
	"net/url"
	"strings"

	"github.com/filingrag/filingrag/internal/metadata"
	"github.com/filingrag/filingrag/internal/model"
)

// SourceKind tags which fetch path a record takes.
type SourceKind int

const (
	// SourceNone means no candidate URL qualified.
	SourceNone SourceKind = iota
	// SourcePlainText is the full-text filing URL, fetched with content
	// filtering and passed through HTML stripping.
	SourcePlainText
	// SourceHTML is the filing-details page, fetched with default
	// settings and converted to markdown directly.
	SourceHTML
	// SourceFallback is the generic document URL, fetched with a plain
	// GET and stripped of tags.
	SourceFallback
)

// String names the kind for logs and failure reasons.
func (k SourceKind) String() string {
	switch k {
	case SourcePlainText:
		return "txt"
	case SourceHTML:
		return "html"
	case SourceFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Source is the per-record fetch decision: one kind, one URL.
type Source struct {
	Kind SourceKind
	URL  string
}

// SelectSource picks a record's source URL by priority: plain-text filing
// first, then the HTML/filing-details page, then the generic document URL.
// Every candidate must start with a scheme prefix to qualify.
func SelectSource(r model.FilingRecord) Source {
	if hasScheme(r.LinkToTxt) {
		return Source{Kind: SourcePlainText, URL: r.LinkToTxt}
	}

	htmlURL := r.LinkToHtml
	if htmlURL == "" {
		htmlURL = r.LinkToFilingDetails
	}
	if hasScheme(htmlURL) {
		return Source{Kind: SourceHTML, URL: htmlURL}
	}

	if docURL := r.PrimaryDocumentURL(); hasScheme(docURL) {
		return Source{Kind: SourceFallback, URL: docURL}
	}

	return Source{Kind: SourceNone}
}

func hasScheme(u string) bool {
	return strings.HasPrefix(u, "http")
}

// OutputFilename derives the cleaned document's filename for a source: from
// the URL's path for plain-text filings, from domain and path for HTML
// pages, and from the record's fields for the fallback path. Deterministic
// for a given record.
func OutputFilename(src Source, r model.FilingRecord) string {
	switch src.Kind {
	case SourcePlainText:
		return "sec_" + urlPathSlug(src.URL) + ".md"
	case SourceHTML:
		parsed, err := url.Parse(src.URL)
		if err != nil {
			return metadata.Filename(r) + ".md"
		}
		domain := strings.ReplaceAll(parsed.Host, ".", "_")
		path := urlPathSlug(src.URL)
		if path == "" {
			path = "home"
		}
		return domain + "_" + path + ".md"
	default:
		return metadata.Filename(r) + ".md"
	}
}

func urlPathSlug(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ReplaceAll(strings.Trim(parsed.Path, "/"), "/", "_")
}
