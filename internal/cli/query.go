package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/filingrag/filingrag/internal/embed"
	"github.com/filingrag/filingrag/internal/rag"
	"github.com/filingrag/filingrag/internal/store"
	"github.com/spf13/cobra"
)

var (
	queryTopK    int
	queryTimeout time.Duration
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Retrieve the nearest chunks for a question",
	Long: `Query embeds the question, searches the vector collection, and
prints the retrieved chunks with their metadata. No answer is composed;
this is the retrieval-only diagnostic path.

Example:
  filingrag query "What are Tesla's recent risk factors?"
  filingrag query --top-k 10 "Apple revenue by segment"`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().IntVar(&queryTopK, "top-k", 0, "number of chunks to retrieve (default from config)")
	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", 2*time.Minute, "query timeout")
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := args[0]
	cfg := loadConfig()
	topK := queryTopK
	if topK <= 0 {
		topK = cfg.LLM.TopK
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
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

	retriever := rag.NewRetriever(embedder, vs, topK)
	results, err := retriever.Retrieve(ctx, question)
	if err != nil {
		return err
	}

	fmt.Printf("\nRetrieved %d chunks for: %q\n\n", len(results), question)
	for i, res := range results {
		preview := strings.ReplaceAll(strings.TrimSpace(res.Text), "\n", " ")
		if len(preview) > 300 {
			preview = preview[:300]
		}
		fmt.Printf("Result %d:\n", i+1)
		fmt.Printf("   - Ticker       : %v\n", res.Metadata["ticker"])
		fmt.Printf("   - Filing Type  : %v\n", res.Metadata["filing_type"])
		fmt.Printf("   - Section      : %v\n", res.Metadata["section"])
		fmt.Printf("   - Filing Date  : %v\n", res.Metadata["filing_date"])
		fmt.Printf("   - Source Doc   : %v\n", res.Metadata["source_doc"])
		fmt.Printf("   - Chunk Index  : %v\n", res.Metadata["chunk_index"])
		fmt.Printf("   - Score        : %.4f\n", res.Score)
		fmt.Printf("   - Preview      : %s...\n\n", preview)
	}
	return nil
}
