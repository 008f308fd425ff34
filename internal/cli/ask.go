package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/filingrag/filingrag/internal/embed"
	"github.com/filingrag/filingrag/internal/llm"
	"github.com/filingrag/filingrag/internal/rag"
	"github.com/filingrag/filingrag/internal/store"
	"github.com/spf13/cobra"
)

var (
	askProvider string
	askModel    string
	askTopK     int
	askTimeout  time.Duration
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer questions grounded in the indexed filings",
	Long: `Ask retrieves the nearest chunks for a question and composes an
answer with the configured completion model. With a question argument it
answers once and exits; without one it starts an interactive session
that carries the conversation history into each prompt.

Requires the provider's API key in the environment (GEMINI_API_KEY or
OPENAI_API_KEY) plus OPENAI_API_KEY for the embedding model.

Example:
  filingrag ask "What risk factors did Tesla report?"
  filingrag ask --provider openai --model gpt-4o-mini
  filingrag ask`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askProvider, "provider", "", "completion provider (gemini, openai; default from config)")
	askCmd.Flags().StringVar(&askModel, "model", "", "completion model name (default from config)")
	askCmd.Flags().IntVar(&askTopK, "top-k", 0, "number of chunks to retrieve (default from config)")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 4*time.Hour, "overall session timeout")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if askProvider != "" {
		cfg.LLM.Provider = askProvider
		switch askProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if askModel != "" {
		cfg.LLM.Model = askModel
	}
	topK := askTopK
	if topK <= 0 {
		topK = cfg.LLM.TopK
	}

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	provider, err := llm.NewProvider(ctx, llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return err
	}
	if provider == nil {
		return fmt.Errorf("no completion provider configured")
	}

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
	composer := rag.NewComposer(provider)
	session := rag.NewSession()

	if len(args) == 1 {
		return answerOne(ctx, retriever, composer, session, args[0])
	}

	fmt.Println("Ask questions about the indexed filings. Empty line or Ctrl-D to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			break
		}
		if err := answerOne(ctx, retriever, composer, session, question); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// answerOne runs one retrieve-compose round and records the turn.
func answerOne(ctx context.Context, retriever *rag.Retriever, composer *rag.Composer, session *rag.Session, question string) error {
	results, err := retriever.Retrieve(ctx, question)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "retrieved %d chunks\n", len(results))
	}

	answer, err := composer.Compose(ctx, question, session.History(), results)
	if err != nil {
		return err
	}

	session.Append(rag.Turn{
		Question: question,
		Answer:   answer,
		Context:  rag.FormatContext(results),
	})

	fmt.Println(answer)
	return nil
}
