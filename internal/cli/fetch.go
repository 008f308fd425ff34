package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/filingrag/filingrag/internal/metadata"
	"github.com/filingrag/filingrag/internal/pipeline"
	"github.com/filingrag/filingrag/internal/secapi"
	"github.com/spf13/cobra"
)

var (
	fetchOut     string
	fetchTickers []string
	fetchForms   []string
	fetchTimeout time.Duration
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch filing metadata into a CSV table",
	Long: `Fetch queries the filings search API for every configured
(ticker, filing type) pair and writes the accumulated metadata to a CSV
table. A failing pair is logged and skipped; remaining pairs still run.

Requires SEC_API_KEY in the environment.

Example:
  filingrag fetch
  filingrag fetch --tickers AAPL,TSLA --forms 10-K --out metadata.csv`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "output CSV path (default from config)")
	fetchCmd.Flags().StringSliceVar(&fetchTickers, "tickers", nil, "tickers to fetch (default from config)")
	fetchCmd.Flags().StringSliceVar(&fetchForms, "forms", nil, "filing types to fetch (default from config)")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 30*time.Minute, "overall fetch timeout")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.SEC.APIKey == "" {
		return fmt.Errorf("SEC_API_KEY environment variable not set")
	}
	if len(fetchTickers) > 0 {
		cfg.SEC.Tickers = fetchTickers
	}
	if len(fetchForms) > 0 {
		cfg.SEC.FilingTypes = fetchForms
	}
	outPath := fetchOut
	if outPath == "" {
		outPath = cfg.Paths.MetadataCSV
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	client := secapi.NewClient(cfg.SEC, cfg.HTTP)
	fetcher := pipeline.NewMetadataFetcher(client, cfg.SEC, cfg.Output.Verbose)

	records := fetcher.Run(ctx)
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No filings fetched; table not written")
		return nil
	}

	if err := metadata.Write(outPath, records); err != nil {
		return fmt.Errorf("write metadata table: %w", err)
	}

	fmt.Printf("Saved %d filing records to %s\n", len(records), outPath)
	return nil
}
