package model

import "time"

// Config is the complete runtime configuration.
type Config struct {
	SEC    SECConfig    `yaml:"sec" mapstructure:"sec"`
	HTTP   HTTPConfig   `yaml:"http" mapstructure:"http"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Crawl  CrawlConfig  `yaml:"crawl" mapstructure:"crawl"`
	Paths  PathsConfig  `yaml:"paths" mapstructure:"paths"`
	Chunk  ChunkConfig  `yaml:"chunk" mapstructure:"chunk"`
	Embed  EmbedConfig  `yaml:"embed" mapstructure:"embed"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	LLM    LLMConfig    `yaml:"llm" mapstructure:"llm"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// SECConfig configures the filings search API client.
type SECConfig struct {
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string        `yaml:"-" mapstructure:"-"`
	Tickers     []string      `yaml:"tickers" mapstructure:"tickers"`
	FilingTypes []string      `yaml:"filing_types" mapstructure:"filing_types"`
	PageSize    int           `yaml:"page_size" mapstructure:"page_size"`
	PerPair     int           `yaml:"per_pair" mapstructure:"per_pair"`
	Interval    time.Duration `yaml:"interval" mapstructure:"interval"`
}

// HTTPConfig configures outbound HTTP behavior.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// CacheConfig configures the fetch cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// CrawlConfig configures content filtering on the plain-text fetch path.
type CrawlConfig struct {
	PruneThreshold float64 `yaml:"prune_threshold" mapstructure:"prune_threshold"`
	MinBlockWords  int     `yaml:"min_block_words" mapstructure:"min_block_words"`
	RespectRobots  bool    `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// PathsConfig names the on-disk artifacts.
type PathsConfig struct {
	MetadataCSV string `yaml:"metadata_csv" mapstructure:"metadata_csv"`
	CleanedDir  string `yaml:"cleaned_dir" mapstructure:"cleaned_dir"`
}

// ChunkConfig configures the text splitter.
type ChunkConfig struct {
	Size         int `yaml:"size" mapstructure:"size"`
	Overlap      int `yaml:"overlap" mapstructure:"overlap"`
	MinDocLength int `yaml:"min_doc_length" mapstructure:"min_doc_length"`
}

// EmbedConfig configures the embedding model.
type EmbedConfig struct {
	Model     string `yaml:"model" mapstructure:"model"`
	Dimension int    `yaml:"dimension" mapstructure:"dimension"`
	BatchSize int    `yaml:"batch_size" mapstructure:"batch_size"`
	APIKey    string `yaml:"-" mapstructure:"-"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
}

// StoreConfig configures the vector collection.
type StoreConfig struct {
	Backend    string `yaml:"backend" mapstructure:"backend"` // "milvus" or "memory"
	Address    string `yaml:"address" mapstructure:"address"`
	Username   string `yaml:"username" mapstructure:"username"`
	Password   string `yaml:"-" mapstructure:"-"`
	Database   string `yaml:"database" mapstructure:"database"`
	Collection string `yaml:"collection" mapstructure:"collection"`
}

// LLMConfig configures the answer-composition model.
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // "gemini" or "openai"
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"-" mapstructure:"-"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Temperature float32 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	TopK        int     `yaml:"top_k" mapstructure:"top_k"`
}

// OutputConfig controls reporting.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		SEC: SECConfig{
			BaseURL:     "https://api.sec-api.io",
			Tickers:     []string{"AAPL", "TSLA", "JPM", "PFE", "XOM", "AMZN", "BA", "NVDA", "DIS", "UNH"},
			FilingTypes: []string{"10-K", "10-Q", "8-K", "DEF 14A"},
			PageSize:    20,
			PerPair:     20,
			Interval:    1200 * time.Millisecond,
		},
		HTTP: HTTPConfig{
			Timeout:      20 * time.Second,
			UserAgent:    "filingrag/0.1 (+https://github.com/filingrag/filingrag)",
			MaxBodyBytes: 50_000_000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Crawl: CrawlConfig{
			PruneThreshold: 0.3,
			MinBlockWords:  10,
			RespectRobots:  true,
		},
		Paths: PathsConfig{
			MetadataCSV: "metadata.csv",
			CleanedDir:  "cleaned_filings",
		},
		Chunk: ChunkConfig{
			Size:         1000,
			Overlap:      200,
			MinDocLength: 100,
		},
		Embed: EmbedConfig{
			Model:     "text-embedding-3-small",
			Dimension: 1536,
			BatchSize: 100,
		},
		Store: StoreConfig{
			Backend:    "milvus",
			Address:    "localhost:19530",
			Collection: "sec_filings",
		},
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-1.5-flash",
			Temperature: 0.2,
			MaxTokens:   1024,
			Timeout:     30,
			TopK:        5,
		},
	}
}
