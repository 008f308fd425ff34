package cli

import (
	"fmt"
	"os"

	"github.com/filingrag/filingrag/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "filingrag",
	Short: "FilingRAG - retrieval-augmented QA over SEC filings",
	Long: `FilingRAG builds a question-answering corpus from SEC filings.

It fetches filing metadata from the search API, downloads and cleans the
filing documents, attaches metadata headers, chunks and embeds the text
into a vector collection, and answers questions grounded in the
retrieved chunks.

Typical flow:
  filingrag fetch      # pull filing metadata into metadata.csv
  filingrag ingest     # download and clean the documents
  filingrag index      # chunk, embed, and load the vector collection
  filingrag ask        # chat over the indexed filings`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for FilingRAG.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("filingrag v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.filingrag/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.filingrag")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match FILINGRAG_*
	viper.SetEnvPrefix("FILINGRAG")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges the config file over the defaults and pulls secrets
// from the environment. API keys never live in the config file.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid config values, using defaults: %v\n", err)
		cfg = model.DefaultConfig()
	}
	cfg.Output.Verbose = verbose || cfg.Output.Verbose

	cfg.SEC.APIKey = os.Getenv("SEC_API_KEY")
	cfg.Embed.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Store.Password = os.Getenv("MILVUS_PASSWORD")

	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	default:
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	return cfg
}
