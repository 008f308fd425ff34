// Package frontmatter attaches and parses the YAML metadata header carried
// by every cleaned filing document.
package frontmatter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/filingrag/filingrag/internal/model"
)

// Marker delimits the metadata header at the top of a document.
const Marker = "---"

// ErrAlreadyAttached reports that a document already begins with the marker;
// attaching again would double-wrap it.
var ErrAlreadyAttached = errors.New("already has frontmatter")

// Build derives the header mapping from a metadata record. Each field takes
// the first present source column; absent fields are omitted rather than
// written empty. The section label is a copy of the resolved filing type,
// "Unknown" when none resolves.
func Build(r model.FilingRecord) map[string]any {
	meta := make(map[string]any)

	if r.Ticker != "" {
		meta["ticker"] = r.Ticker
	}
	if ft := r.ResolvedFormType(); ft != "" {
		meta["filing_type"] = ft
	}
	if fd := r.ResolvedFilingDate(); fd != "" {
		meta["filing_date"] = fd
	}
	if r.AccessionNo != "" {
		meta["accession_number"] = r.AccessionNo
	}
	if name := r.ResolvedCompanyName(); name != "" {
		meta["company_name"] = name
	}
	if r.CIK != "" {
		if cik, err := strconv.Atoi(r.CIK); err == nil {
			meta["cik"] = cik
		} else {
			meta["cik"] = r.CIK
		}
	}

	section := "Unknown"
	if ft, ok := meta["filing_type"].(string); ok {
		section = ft
	}
	meta["section"] = section

	return meta
}

// HasFrontmatter reports whether content already begins with the marker.
func HasFrontmatter(content string) bool {
	return strings.HasPrefix(content, Marker)
}

// Attach serializes meta as a sorted-key YAML block between marker lines,
// followed by a blank line and the body. Attaching to a body that already
// begins with the marker returns ErrAlreadyAttached and the body unchanged.
func Attach(body string, meta map[string]any) (string, error) {
	if HasFrontmatter(body) {
		return body, ErrAlreadyAttached
	}
	if len(meta) == 0 {
		return body, nil
	}

	header, err := yaml.Marshal(meta)
	if err != nil {
		return body, fmt.Errorf("marshal frontmatter: %w", err)
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", Marker, header, Marker, body), nil
}

// Parse splits a document into its header mapping and body. Documents
// without a header yield an empty mapping and the trimmed content.
func Parse(content string) (map[string]any, string, error) {
	if !HasFrontmatter(content) {
		return map[string]any{}, strings.TrimSpace(content), nil
	}

	parts := strings.SplitN(content, Marker, 3)
	if len(parts) < 3 {
		return map[string]any{}, strings.TrimSpace(content), nil
	}

	meta := make(map[string]any)
	if err := yaml.Unmarshal([]byte(parts[1]), &meta); err != nil {
		return nil, "", fmt.Errorf("parse frontmatter: %w", err)
	}

	return meta, strings.TrimSpace(parts[2]), nil
}
