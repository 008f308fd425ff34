package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/filingrag/filingrag/internal/model"
	"github.com/filingrag/filingrag/internal/secapi"
)

// MetadataFetcher pulls filing metadata for every configured
// (ticker, filing type) pair.
type MetadataFetcher struct {
	client      *secapi.Client
	tickers     []string
	filingTypes []string
	verbose     bool
}

// NewMetadataFetcher creates the fetch stage.
func NewMetadataFetcher(client *secapi.Client, cfg model.SECConfig, verbose bool) *MetadataFetcher {
	return &MetadataFetcher{
		client:      client,
		tickers:     cfg.Tickers,
		filingTypes: cfg.FilingTypes,
		verbose:     verbose,
	}
}

// Run accumulates records across all pairs. A failing pair is logged and
// skipped; the remaining pairs still run. The returned slice may be empty;
// the caller decides whether to write a table.
func (f *MetadataFetcher) Run(ctx context.Context) []model.FilingRecord {
	var all []model.FilingRecord
	for _, ticker := range f.tickers {
		for _, filingType := range f.filingTypes {
			if f.verbose {
				fmt.Fprintf(os.Stderr, "fetching filings: %s - %s\n", ticker, filingType)
			}

			records, err := f.client.FetchPair(ctx, ticker, filingType)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %s - %s: %v\n", ticker, filingType, err)
				continue
			}
			if f.verbose {
				fmt.Fprintf(os.Stderr, "found %d filings for %s - %s\n", len(records), ticker, filingType)
			}
			for _, r := range records {
				if r.AccessionNo != "" && !model.ValidAccessionNo(r.AccessionNo) {
					fmt.Fprintf(os.Stderr, "warning: malformed accession number %q for %s\n", r.AccessionNo, ticker)
				}
			}
			all = append(all, records...)
		}
	}
	return all
}
