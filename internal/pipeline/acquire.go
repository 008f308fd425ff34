// Package pipeline orchestrates the batch stages: metadata fetching, raw
// content acquisition with cleaning, and frontmatter attachment.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/filingrag/filingrag/internal/crawl"
	"github.com/filingrag/filingrag/internal/frontmatter"
	"github.com/filingrag/filingrag/internal/model"
	"github.com/filingrag/filingrag/internal/normalize"
)

// Failure records one permanently failed record: the identifying ticker and
// the reason. Failures never abort the run.
type Failure struct {
	Ticker string
	Reason string
}

// AcquireSummary reports an acquisition run.
type AcquireSummary struct {
	Total     int
	Succeeded int
	Skipped   int // output already present with frontmatter
	Failures  []Failure
}

// Acquirer downloads, cleans, and writes one document per filing record.
// Records are processed strictly sequentially; a single crawl fetch is in
// flight at any time.
type Acquirer struct {
	crawler *crawl.Client
	outDir  string
	verbose bool
}

// NewAcquirer creates an acquirer writing cleaned documents into outDir.
func NewAcquirer(crawler *crawl.Client, outDir string, verbose bool) *Acquirer {
	return &Acquirer{
		crawler: crawler,
		outDir:  outDir,
		verbose: verbose,
	}
}

// Run processes every record, collecting per-record failures instead of
// stopping. Only the output directory being uncreatable is fatal.
func (a *Acquirer) Run(ctx context.Context, records []model.FilingRecord) (*AcquireSummary, error) {
	if err := os.MkdirAll(a.outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	summary := &AcquireSummary{Total: len(records)}
	for _, r := range records {
		skipped, err := a.processRecord(ctx, r)
		switch {
		case err != nil:
			ticker := r.Ticker
			if ticker == "" {
				ticker = "UNK"
			}
			summary.Failures = append(summary.Failures, Failure{Ticker: ticker, Reason: err.Error()})
			if a.verbose {
				fmt.Fprintf(os.Stderr, "failed: %s: %v\n", ticker, err)
			}
		case skipped:
			summary.Skipped++
		default:
			summary.Succeeded++
		}
	}
	return summary, nil
}

// processRecord resolves the record's source, fetches and cleans its
// content, attaches the metadata header, and writes the document. Returns
// skipped=true when the output already exists with a header.
func (a *Acquirer) processRecord(ctx context.Context, r model.FilingRecord) (bool, error) {
	src := SelectSource(r)
	if src.Kind == SourceNone {
		return false, errors.New("no valid URL")
	}

	outPath := filepath.Join(a.outDir, OutputFilename(src, r))
	if existing, err := os.ReadFile(outPath); err == nil && frontmatter.HasFrontmatter(string(existing)) {
		if a.verbose {
			fmt.Fprintf(os.Stderr, "skip %s: already has frontmatter\n", filepath.Base(outPath))
		}
		return true, nil
	}

	body, err := a.fetchBody(ctx, src)
	if err != nil {
		return false, err
	}

	content, err := frontmatter.Attach(body, frontmatter.Build(r))
	if err != nil && !errors.Is(err, frontmatter.ErrAlreadyAttached) {
		return false, err
	}

	if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("write document: %w", err)
	}

	if a.verbose {
		fmt.Fprintf(os.Stderr, "saved %s (%s, %d chars)\n", filepath.Base(outPath), src.Kind, len(content))
	}
	return false, nil
}

// fetchBody runs the handler for the record's source kind.
func (a *Acquirer) fetchBody(ctx context.Context, src Source) (string, error) {
	switch src.Kind {
	case SourcePlainText:
		fit, err := a.crawler.FetchFit(ctx, src.URL)
		if err != nil {
			return "", err
		}
		text, err := normalize.StripHTML(fit)
		if err != nil {
			return "", err
		}
		return normalize.Rewrite(text), nil

	case SourceHTML:
		// The markdown conversion is the normalized form for this
		// path; the HTML-stripping stage is skipped.
		return a.crawler.FetchMarkdown(ctx, src.URL)

	case SourceFallback:
		raw, err := a.crawler.Fetch(ctx, src.URL)
		if err != nil {
			return "", err
		}
		return normalize.ExtractTextGeneric(raw)

	default:
		return "", fmt.Errorf("unhandled source kind %v", src.Kind)
	}
}
