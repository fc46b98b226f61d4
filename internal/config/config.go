package config

import "fmt"

const (
	// DefaultListenAddr is used when no listen address is configured.
	DefaultListenAddr = "0.0.0.0:8000"
	DefaultVoiceID    = "TxGEqnHWrfWFTfGW9XjX" // Josh
	DefaultModel      = "eleven_monolingual_v1"
	DefaultLogLevel   = "info"
	DefaultEnv        = "dev"
)

// Config captures gateway configuration assembled from an optional YAML file
// and environment variable overrides.
type Config struct {
	ListenAddr string
	APIKey     string
	VoiceID    string
	Model      string
	LogLevel   string
	LogFile    string
	Env        string

	// Voice settings forwarded to the vendor on synthesis (optional).
	Stability       *float64
	SimilarityBoost *float64

	// UseStubEngine replaces the vendor client with a deterministic local
	// stub. Intended for CI and offline development; waives the API key
	// requirement.
	UseStubEngine bool

	// Synthesis cache. Disabled unless both CacheDir and a positive
	// CacheMaxSizeMB are set.
	CacheDir       string
	CacheMaxSizeMB int
}

// Validate applies defaults and raises an error when required fields are missing.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen address is required")
	}
	if c.APIKey == "" && !c.UseStubEngine {
		return fmt.Errorf("config: api_key is required (set ELEVENLABS_API_KEY)")
	}
	if c.VoiceID == "" {
		c.VoiceID = DefaultVoiceID
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Env == "" {
		c.Env = DefaultEnv
	}

	// Validate voice settings ranges if provided
	if c.Stability != nil {
		if *c.Stability < 0.0 || *c.Stability > 1.0 {
			return fmt.Errorf("config: stability must be between 0.0 and 1.0, got %f", *c.Stability)
		}
	}
	if c.SimilarityBoost != nil {
		if *c.SimilarityBoost < 0.0 || *c.SimilarityBoost > 1.0 {
			return fmt.Errorf("config: similarity_boost must be between 0.0 and 1.0, got %f", *c.SimilarityBoost)
		}
	}

	if c.CacheMaxSizeMB < 0 {
		return fmt.Errorf("config: cache_max_size_mb must not be negative, got %d", c.CacheMaxSizeMB)
	}

	return nil
}
