package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/filingrag/filingrag/internal/cache"
	"github.com/filingrag/filingrag/internal/crawl"
	"github.com/filingrag/filingrag/internal/metadata"
	"github.com/filingrag/filingrag/internal/model"
	"github.com/filingrag/filingrag/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	ingestCSV     string
	ingestOutDir  string
	ingestNoCache bool
	ingestTimeout time.Duration
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Download, clean, and save filing documents",
	Long: `Ingest reads the metadata table, resolves the best source URL for
each filing, downloads and cleans the content, attaches the metadata
header, and writes one markdown document per filing.

Records are processed sequentially. Per-record failures are collected
and reported; they never abort the run. Documents that already exist
with a header are skipped.

Example:
  filingrag ingest
  filingrag ingest --csv metadata.csv --out cleaned_filings`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestCSV, "csv", "", "metadata CSV path (default from config)")
	ingestCmd.Flags().StringVar(&ingestOutDir, "out", "", "output directory (default from config)")
	ingestCmd.Flags().BoolVar(&ingestNoCache, "no-cache", false, "disable fetch cache (force fresh downloads)")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 2*time.Hour, "overall ingest timeout")
}

// buildFetchCache constructs the layered cache per configuration. Returns
// nil when caching is disabled; the crawl client treats nil as no cache.
func buildFetchCache(cfg model.CacheConfig) cache.Cache {
	if !cfg.Enabled {
		return nil
	}
	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cache.NewMemoryCache(cfg.TTL, 10*time.Minute)
		}
		dir = filepath.Join(home, ".filingrag", "cache")
	}
	return cache.NewLayeredCache(cfg.TTL, dir, cfg.TTL)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	csvPath := ingestCSV
	if csvPath == "" {
		csvPath = cfg.Paths.MetadataCSV
	}
	outDir := ingestOutDir
	if outDir == "" {
		outDir = cfg.Paths.CleanedDir
	}
	if ingestNoCache {
		cfg.Cache.Enabled = false
	}

	records, err := metadata.Read(csvPath)
	if err != nil {
		return fmt.Errorf("read metadata table: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "Metadata table is empty; nothing to ingest")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	crawler := crawl.NewClient(cfg.HTTP, cfg.Crawl, buildFetchCache(cfg.Cache))
	acquirer := pipeline.NewAcquirer(crawler, outDir, cfg.Output.Verbose)

	summary, err := acquirer.Run(ctx, records)
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d records: %d saved, %d skipped, %d failed\n",
		summary.Total, summary.Succeeded, summary.Skipped, len(summary.Failures))
	for _, f := range summary.Failures {
		fmt.Fprintf(os.Stderr, "  failed %s: %s\n", f.Ticker, f.Reason)
	}
	return nil
}
