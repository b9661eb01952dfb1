package model

import "time"

// Config holds every tunable of formsense
type Config struct {
	Policy       PolicyConfig       `yaml:"policy" mapstructure:"policy"`
	Vocabulary   string             `yaml:"vocabulary" mapstructure:"vocabulary"` // Optional YAML tables replacing the built-in ones
	Origin       OriginConfig       `yaml:"origin" mapstructure:"origin"`
	Fill         FillConfig         `yaml:"fill" mapstructure:"fill"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// PolicyConfig carries the caller-owned classification policy
type PolicyConfig struct {
	RespectAutofillOff   bool    `yaml:"respect_autofill_off" mapstructure:"respect_autofill_off"`
	LowConfidenceEpsilon float64 `yaml:"low_confidence_epsilon" mapstructure:"low_confidence_epsilon"`
}

// OriginConfig lists origins where autofill must never be offered
type OriginConfig struct {
	BlockedApplications []string      `yaml:"blocked_applications" mapstructure:"blocked_applications"`
	BlockedDomains      []string      `yaml:"blocked_domains" mapstructure:"blocked_domains"`
	PathPatterns        []PathPattern `yaml:"path_patterns" mapstructure:"path_patterns"`
	FlagInsecure        bool          `yaml:"flag_insecure" mapstructure:"flag_insecure"`
}

// PathPattern blocks web forms whose URL path matches Pattern
type PathPattern struct {
	Pattern string `yaml:"pattern" mapstructure:"pattern"`
	Reason  string `yaml:"reason" mapstructure:"reason"`
}

// FillConfig drives the dataset builder and fill service
type FillConfig struct {
	OwnApplicationID string        `yaml:"own_application_id" mapstructure:"own_application_id"`
	MaxSuggestions   int           `yaml:"max_suggestions" mapstructure:"max_suggestions"`
	ManualSelection  bool          `yaml:"manual_selection" mapstructure:"manual_selection"`
	SaveRequest      bool          `yaml:"save_request" mapstructure:"save_request"`
	SessionTTL       time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
}

// HTTPConfig configures the login page fetcher
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// CacheConfig configures the report cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig configures per-domain fetch limits
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// LLMConfig configures the optional report summary
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`

	StrictPrivacy bool `yaml:"strict_privacy" mapstructure:"strict_privacy"` // Reject summaries that echo field values or foreign URLs
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeValues bool `yaml:"include_values" mapstructure:"include_values"` // Print observed field text in reports
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Policy: PolicyConfig{
			RespectAutofillOff:   true,
			LowConfidenceEpsilon: 0.1,
		},
		Origin: OriginConfig{
			FlagInsecure: true,
		},
		Fill: FillConfig{
			MaxSuggestions:  10,
			ManualSelection: true,
			SaveRequest:     true,
			SessionTTL:      10 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "formsense/0.1 (+https://github.com/ppiankov/formsense)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".formsense-cache",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		LLM: LLMConfig{
			Timeout:       30,
			MaxTokens:     600,
			StrictPrivacy: true,
		},
	}
}
