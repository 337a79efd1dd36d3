package model

import "time"

// Config is the complete application configuration.
// Field names double as viper keys through the mapstructure tags.
type Config struct {
	LLM      LLMConfig      `yaml:"llm" mapstructure:"llm"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Ingest   IngestConfig   `yaml:"ingest" mapstructure:"ingest"`
	Corpus   CorpusConfig   `yaml:"corpus" mapstructure:"corpus"`
	Evidence EvidenceConfig `yaml:"evidence" mapstructure:"evidence"`
	Patterns PatternConfig  `yaml:"patterns" mapstructure:"patterns"`
	Reviews  ReviewsConfig  `yaml:"reviews" mapstructure:"reviews"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// LLMConfig selects and configures the chat-completion provider
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, ollama, none
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"` // OPENAI_API_KEY
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`         // OPENROUTER_API_BASE
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"`           // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float32 `yaml:"temperature" mapstructure:"temperature"`
	Referer     string  `yaml:"referer" mapstructure:"referer"`
	Title       string  `yaml:"title" mapstructure:"title"`
	Probe       bool    `yaml:"probe" mapstructure:"probe"` // check availability at startup
	HTTPProxy   string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy  string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy     string  `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// SearchConfig configures the web search client
type SearchConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBytes  int64         `yaml:"max_bytes" mapstructure:"max_bytes"`
	MinDelay  time.Duration `yaml:"min_delay" mapstructure:"min_delay"` // enforced before every search call and page fetch
}

// IngestConfig controls document loading and chunking
type IngestConfig struct {
	ChunkSize       int `yaml:"chunk_size" mapstructure:"chunk_size"`
	ChunkOverlap    int `yaml:"chunk_overlap" mapstructure:"chunk_overlap"`
	MinContentChars int `yaml:"min_content_chars" mapstructure:"min_content_chars"`
}

// CorpusConfig lists the local evidence corpus sources
type CorpusConfig struct {
	Sources []string      `yaml:"sources" mapstructure:"sources"` // URLs or local paths of PDF/text files
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// EvidenceConfig controls retrieval and web evidence enhancement
type EvidenceConfig struct {
	QueriesPerClaim    int  `yaml:"queries_per_claim" mapstructure:"queries_per_claim"`
	TopN               int  `yaml:"top_n" mapstructure:"top_n"`
	WebResultsPerQuery int  `yaml:"web_results_per_query" mapstructure:"web_results_per_query"`
	WebQueriesPerClaim int  `yaml:"web_queries_per_claim" mapstructure:"web_queries_per_claim"`
	MaxWebEvidence     int  `yaml:"max_web_evidence" mapstructure:"max_web_evidence"`
	LiveWeb            bool `yaml:"live_web" mapstructure:"live_web"` // search the web instead of the source catalogue
}

// PatternConfig configures the pattern-based claim detector
type PatternConfig struct {
	MinSentenceLength int                `yaml:"min_sentence_length" mapstructure:"min_sentence_length"`
	Thresholds        map[string]float64 `yaml:"thresholds" mapstructure:"thresholds"` // claim_type -> max credible value
}

// ReviewsConfig configures the university review analyzer
type ReviewsConfig struct {
	FetchTimeout       time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`
	MaxPageBytes       int64         `yaml:"max_page_bytes" mapstructure:"max_page_bytes"`
	RespectRobots      bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	StructuredScraping bool          `yaml:"structured_scraping" mapstructure:"structured_scraping"` // false forces raw-HTML extraction
}

// CacheConfig configures the LLM response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"` // PORT
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	AllowOrigins    []string      `yaml:"allow_origins" mapstructure:"allow_origins"`
}

// OutputConfig controls where reports are written
type OutputConfig struct {
	ReportDir string `yaml:"report_dir" mapstructure:"report_dir"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json, console
}

// DefaultThresholds are the pattern verdict cutoffs: a captured value above
// the threshold for its claim type is marked Contradicted.
func DefaultThresholds() map[string]float64 {
	return map[string]float64{
		"revenue_growth":         60,
		"profit_growth":          150,
		"efficiency_improvement": 50,
		"customer_satisfaction":  99,
		"productivity":           80,
		"carbon_reduction":       90,
		"renewable_energy":       100,
	}
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "meta-llama/llama-3.1-8b-instruct",
			BaseURL:     "https://openrouter.ai/api/v1",
			Timeout:     30,
			MaxTokens:   1024,
			Temperature: 0.1,
			Referer:     "http://localhost:8000",
			Title:       "Document Audit API",
			Probe:       true,
		},
		Search: SearchConfig{
			Enabled:   true,
			BaseURL:   "https://html.duckduckgo.com",
			Timeout:   30 * time.Second,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			MaxBytes:  1024 * 1024,
			MinDelay:  2 * time.Second,
		},
		Ingest: IngestConfig{
			ChunkSize:       2000,
			ChunkOverlap:    250,
			MinContentChars: 100,
		},
		Corpus: CorpusConfig{
			Sources: []string{
				"https://arxiv.org/pdf/2508.11042.pdf",
				"https://arxiv.org/pdf/2508.10951.pdf",
			},
			Timeout: 30 * time.Second,
		},
		Evidence: EvidenceConfig{
			QueriesPerClaim:    5,
			TopN:               3,
			WebResultsPerQuery: 5,
			WebQueriesPerClaim: 3,
			MaxWebEvidence:     5,
		},
		Patterns: PatternConfig{
			MinSentenceLength: 30,
			Thresholds:        DefaultThresholds(),
		},
		Reviews: ReviewsConfig{
			FetchTimeout:       10 * time.Second,
			MaxPageBytes:       5 * 1024 * 1024,
			RespectRobots:      true,
			StructuredScraping: true,
		},
		Cache: CacheConfig{
			Enabled:   false,
			Dir:       "~/.claimaudit/cache",
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    10 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			AllowOrigins:    []string{"*"},
		},
		Output: OutputConfig{
			ReportDir: "reports",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
