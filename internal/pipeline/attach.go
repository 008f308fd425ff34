package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/filingrag/filingrag/internal/frontmatter"
	"github.com/filingrag/filingrag/internal/metadata"
	"github.com/filingrag/filingrag/internal/model"
)

// AttachSummary reports a standalone frontmatter-attachment pass.
type AttachSummary struct {
	Files     int
	Matched   int
	Attached  int
	Skipped   int // already had frontmatter
	Unmatched int // no accession in name, or no metadata row for it
}

// AttachDir matches every markdown file under dir to a metadata record by
// the accession number embedded in its filename, and attaches the derived
// header to files that lack one. Already-headered files are left
// byte-for-byte unchanged.
func AttachDir(dir string, lookup map[string]model.FilingRecord, verbose bool) (*AttachSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("markdown directory %s: %w", dir, err)
	}

	summary := &AttachSummary{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		summary.Files++

		accession := metadata.AccessionFromFilename(e.Name())
		if accession == "" {
			summary.Unmatched++
			if verbose {
				fmt.Fprintf(os.Stderr, "no accession number in: %s\n", e.Name())
			}
			continue
		}

		record, ok := lookup[accession]
		if !ok {
			summary.Unmatched++
			if verbose {
				fmt.Fprintf(os.Stderr, "no metadata for accession %s (%s)\n", accession, e.Name())
			}
			continue
		}
		summary.Matched++

		path := filepath.Join(dir, e.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return summary, fmt.Errorf("read %s: %w", e.Name(), err)
		}

		updated, err := frontmatter.Attach(string(content), frontmatter.Build(record))
		if errors.Is(err, frontmatter.ErrAlreadyAttached) {
			summary.Skipped++
			if verbose {
				fmt.Fprintf(os.Stderr, "%s already has frontmatter, skipping\n", e.Name())
			}
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("attach %s: %w", e.Name(), err)
		}

		if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
			return summary, fmt.Errorf("write %s: %w", e.Name(), err)
		}
		summary.Attached++
	}
	return summary, nil
}
