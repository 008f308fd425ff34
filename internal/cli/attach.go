package cli

import (
	"fmt"

	"github.com/filingrag/filingrag/internal/metadata"
	"github.com/filingrag/filingrag/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	attachCSV string
	attachDir string
)

// attachCmd represents the attach command
var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Attach metadata headers to existing markdown files",
	Long: `Attach matches markdown files to metadata records by the accession
number embedded in each filename and prepends the derived header to
files that lack one. Files that already carry a header are left
byte-for-byte unchanged.

Example:
  filingrag attach --dir cleaned_filings`,
	RunE: runAttach,
}

func init() {
	rootCmd.AddCommand(attachCmd)

	attachCmd.Flags().StringVar(&attachCSV, "csv", "", "metadata CSV path (default from config)")
	attachCmd.Flags().StringVar(&attachDir, "dir", "", "markdown directory (default from config)")
}

func runAttach(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	csvPath := attachCSV
	if csvPath == "" {
		csvPath = cfg.Paths.MetadataCSV
	}
	dir := attachDir
	if dir == "" {
		dir = cfg.Paths.CleanedDir
	}

	records, err := metadata.Read(csvPath)
	if err != nil {
		return fmt.Errorf("read metadata table: %w", err)
	}

	summary, err := pipeline.AttachDir(dir, metadata.LookupByAccession(records), cfg.Output.Verbose)
	if err != nil {
		return err
	}

	fmt.Printf("Scanned %d files: %d attached, %d already headered, %d unmatched\n",
		summary.Files, summary.Attached, summary.Skipped, summary.Unmatched)
	return nil
}
