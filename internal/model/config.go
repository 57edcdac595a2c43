package model

import "time"

// Config is the complete service configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
	Oracle     OracleConfig     `yaml:"oracle"`
	Search     SearchConfig     `yaml:"search"`
	Agent      AgentConfig      `yaml:"agent"`
	Voting     VotingConfig     `yaml:"voting"`
	Resolution ResolutionConfig `yaml:"resolution"`
	Validation ValidationConfig `yaml:"validation"`
}

// ServerConfig configures the claim intake API
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Debug   bool   `yaml:"debug"`
	Workers int    `yaml:"workers"` // Concurrent orchestrator workers
}

// StoreConfig configures the JSON-file run store and job queue
type StoreConfig struct {
	DataDir string `yaml:"data_dir"`
}

// OracleConfig configures the reasoning oracle provider
type OracleConfig struct {
	Provider  string `yaml:"provider"` // openai, anthropic, ollama, "" = disabled
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`

	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
}

// SearchConfig configures the external search collaborator
type SearchConfig struct {
	APIKey            string        `yaml:"api_key,omitempty"`
	BaseURL           string        `yaml:"base_url,omitempty"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxResults        int           `yaml:"max_results"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// AgentConfig bounds the orchestration loop
type AgentConfig struct {
	MaxSteps     int    `yaml:"max_steps"`
	MaxRetries   int    `yaml:"max_retries"` // Decision-parse retries per step
	Persona      string `yaml:"persona"`
	RefinePrompt bool   `yaml:"refine_prompt"` // Pre-loop prompt rewrite
}

// VotingConfig configures the community voting subsystem
type VotingConfig struct {
	RequiredVotes int           `yaml:"required_votes"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	PersonasPath  string        `yaml:"personas_path,omitempty"`
}

// ResolutionConfig configures the credible-source resolution sweep
type ResolutionConfig struct {
	Interval     time.Duration `yaml:"interval"`
	MinAge       time.Duration `yaml:"min_age"` // Staleness threshold before a run is eligible
	SourcesPath  string        `yaml:"sources_path,omitempty"`
	MaxDomains   int           `yaml:"max_domains"` // Domains per site-restricted query
	SearchDepth  string        `yaml:"search_depth"`
	ResolvedBy   string        `yaml:"resolved_by"`
}

// ValidationConfig configures advisory source URL validation
type ValidationConfig struct {
	Enabled           bool          `yaml:"enabled"`
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    ":8080",
			Workers: 2,
		},
		Store: StoreConfig{
			DataDir: "./data/state",
		},
		Oracle: OracleConfig{
			Provider:  "",
			Timeout:   60,
			MaxTokens: 1024,
		},
		Search: SearchConfig{
			Timeout:           30 * time.Second,
			MaxResults:        5,
			CacheTTL:          10 * time.Minute,
			RequestsPerSecond: 1,
			Burst:             3,
		},
		Agent: AgentConfig{
			MaxSteps:     10,
			MaxRetries:   3,
			Persona:      "a careful fact-checking assistant",
			RefinePrompt: false,
		},
		Voting: VotingConfig{
			RequiredVotes: 3,
			PollInterval:  2 * time.Second,
		},
		Resolution: ResolutionConfig{
			Interval:    time.Hour,
			MinAge:      time.Hour,
			MaxDomains:  5,
			SearchDepth: "advanced",
			ResolvedBy:  "moderator_agent",
		},
		Validation: ValidationConfig{
			Enabled:           false,
			Timeout:           10 * time.Second,
			UserAgent:         "VeriVerse/0.1 (+https://github.com/veriverse/veriverse)",
			RequestsPerSecond: 2,
			Burst:             5,
		},
	}
}
