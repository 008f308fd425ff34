package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/filingrag/filingrag/internal/chunk"
	"github.com/filingrag/filingrag/internal/embed"
	"github.com/filingrag/filingrag/internal/index"
	"github.com/filingrag/filingrag/internal/store"
	"github.com/spf13/cobra"
)

var (
	indexDir     string
	indexDrop    bool
	indexTimeout time.Duration
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Chunk, embed, and load documents into the vector collection",
	Long: `Index walks the cleaned documents directory, splits each document
body into overlapping chunks, embeds the chunks in batches, and upserts
them into the vector collection. Documents shorter than the configured
minimum are skipped.

Requires OPENAI_API_KEY in the environment for the embedding model.

Example:
  filingrag index
  filingrag index --dir cleaned_filings --drop`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().StringVar(&indexDir, "dir", "", "documents directory (default from config)")
	indexCmd.Flags().BoolVar(&indexDrop, "drop", false, "drop the collection before indexing")
	indexCmd.Flags().DurationVar(&indexTimeout, "timeout", 2*time.Hour, "overall indexing timeout")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	dir := indexDir
	if dir == "" {
		dir = cfg.Paths.CleanedDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	embedder, err := embed.NewOpenAIEmbedder(cfg.Embed)
	if err != nil {
		return err
	}

	vs, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open vector store: %w", err)
	}
	defer func() {
		if closeErr := vs.Close(ctx); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: close vector store: %v\n", closeErr)
		}
	}()

	if indexDrop {
		if err := vs.Drop(ctx); err != nil {
			return fmt.Errorf("drop collection: %w", err)
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "Dropped collection %s\n", cfg.Store.Collection)
		}
	}

	splitter := chunk.NewSplitter(cfg.Chunk)
	indexer := index.NewIndexer(splitter, embedder, vs, cfg.Embed.BatchSize, cfg.Output.Verbose)

	summary, err := indexer.IndexDir(ctx, dir)
	if err != nil {
		return err
	}

	fmt.Printf("Indexed %d of %d documents: %d chunks in %d batches (%d skipped)\n",
		summary.Indexed, summary.Files, summary.Chunks, summary.Batches, summary.Skipped)

	if total, err := vs.Count(ctx); err == nil {
		fmt.Printf("Collection %s now holds %d chunks\n", cfg.Store.Collection, total)
	}
	return nil
}
