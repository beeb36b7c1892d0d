// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/leadprep/internal/cache"
	"github.com/jonathan/leadprep/internal/schemas"
)

// Environment variables read by FromEnv.
const (
	EnvDatabaseURL   = "DATABASE_URL"
	EnvGeminiAPIKey  = "GEMINI_API_KEY"
	EnvYouTubeAPIKey = "YOUTUBE_API_KEY"
	EnvCacheDir      = "LEADPREP_CACHE_DIR"
)

// Default values applied by Defaults.
const (
	DefaultCacheDir           = "data/cache"
	DefaultCacheMaxAgeDays    = 30
	DefaultScoreThreshold     = 30.0
	DefaultTopK               = 15
	DefaultBatchConcurrency   = 4
	DefaultTierTimeoutSeconds = 60
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values come from the environment or defaults.
type Config struct {
	// Credentials and backends
	DatabaseURL   string `json:"database_url,omitempty"`    // PostgreSQL connection URL; empty disables the store tier
	GeminiAPIKey  string `json:"gemini_api_key,omitempty"`  // Gemini API key; empty disables the generated tier
	YouTubeAPIKey string `json:"youtube_api_key,omitempty"` // YouTube Data API key for interview search

	// Cache
	CacheDir        string `json:"cache_dir,omitempty"`          // Directory holding the leader cache file
	CacheMaxAgeDays int    `json:"cache_max_age_days,omitempty"` // Entries older than this are evicted

	// Ranking
	ScoreThreshold float64 `json:"score_threshold,omitempty"` // Minimum interview score kept
	TopK           int     `json:"top_k,omitempty"`           // Maximum interviews per leader

	// Behavior
	PersistFallback    bool   `json:"persist_fallback,omitempty"`     // Save placeholder leaders to the store
	BatchConcurrency   int    `json:"batch_concurrency,omitempty"`    // Parallel resolutions/research calls
	TierTimeoutSeconds int    `json:"tier_timeout_seconds,omitempty"` // Per-tier deadline in seconds
	ProductContext     string `json:"product_context,omitempty"`      // Product description used for openers
	Verbose            bool   `json:"verbose,omitempty"`              // Print detailed output
}

// LoadConfig loads configuration from a JSON file and checks it against the
// embedded config schema. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := schemas.Validate(schemas.Config, string(data)); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return &cfg, nil
}

// FromEnv returns a Config holding only the values set in the environment.
func FromEnv() Config {
	return Config{
		DatabaseURL:   os.Getenv(EnvDatabaseURL),
		GeminiAPIKey:  os.Getenv(EnvGeminiAPIKey),
		YouTubeAPIKey: os.Getenv(EnvYouTubeAPIKey),
		CacheDir:      os.Getenv(EnvCacheDir),
	}
}

// Defaults returns the built-in defaults.
func Defaults() Config {
	return Config{
		CacheDir:           DefaultCacheDir,
		CacheMaxAgeDays:    DefaultCacheMaxAgeDays,
		ScoreThreshold:     DefaultScoreThreshold,
		TopK:               DefaultTopK,
		BatchConcurrency:   DefaultBatchConcurrency,
		TierTimeoutSeconds: DefaultTierTimeoutSeconds,
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.CacheMaxAgeDays < 0 {
		return fmt.Errorf("config error: 'cache_max_age_days' must be non-negative")
	}
	if c.ScoreThreshold < 0 || c.ScoreThreshold > 100 {
		return fmt.Errorf("config error: 'score_threshold' must be between 0 and 100")
	}
	if c.TopK < 0 {
		return fmt.Errorf("config error: 'top_k' must be non-negative")
	}
	if c.BatchConcurrency < 0 {
		return fmt.Errorf("config error: 'batch_concurrency' must be non-negative")
	}
	if c.TierTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'tier_timeout_seconds' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Typical use layers file values over the environment over Defaults().
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.YouTubeAPIKey == "" {
		result.YouTubeAPIKey = defaults.YouTubeAPIKey
	}
	if result.CacheDir == "" {
		result.CacheDir = defaults.CacheDir
	}
	if result.ProductContext == "" {
		result.ProductContext = defaults.ProductContext
	}

	// Numeric fields: use default if zero
	if result.CacheMaxAgeDays == 0 {
		result.CacheMaxAgeDays = defaults.CacheMaxAgeDays
	}
	if result.ScoreThreshold == 0 {
		result.ScoreThreshold = defaults.ScoreThreshold
	}
	if result.TopK == 0 {
		result.TopK = defaults.TopK
	}
	if result.BatchConcurrency == 0 {
		result.BatchConcurrency = defaults.BatchConcurrency
	}
	if result.TierTimeoutSeconds == 0 {
		result.TierTimeoutSeconds = defaults.TierTimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// CachePath returns the leader cache file location.
func (c *Config) CachePath() string {
	dir := c.CacheDir
	if dir == "" {
		dir = DefaultCacheDir
	}
	return filepath.Join(dir, cache.DefaultFileName)
}

// CacheMaxAge returns the cache entry lifetime.
func (c *Config) CacheMaxAge() time.Duration {
	if c.CacheMaxAgeDays <= 0 {
		return cache.DefaultMaxAge
	}
	return time.Duration(c.CacheMaxAgeDays) * 24 * time.Hour
}

// TierTimeout returns the per-tier resolution deadline, zero meaning none.
func (c *Config) TierTimeout() time.Duration {
	return time.Duration(c.TierTimeoutSeconds) * time.Second
}
