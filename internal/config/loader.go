package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader assembles configuration from an optional YAML file and environment
// variables. Tests can override Lookup to inject deterministic maps.
type Loader struct {
	// Path to a YAML config file. Empty means no file is read.
	Path string

	Lookup func(string) (string, bool)
}

// Load reads the config file (if any), applies environment overrides and
// validates the result.
func (l Loader) Load() (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	cfg := Config{
		ListenAddr: DefaultListenAddr,
	}

	if l.Path != "" {
		if err := applyFile(l.Path, &cfg); err != nil {
			return Config{}, err
		}
	}

	overrideString(l.Lookup, "ELEVENLABS_API_KEY", &cfg.APIKey)
	overrideString(l.Lookup, "VOICEGATE_LISTEN_ADDR", &cfg.ListenAddr)
	overrideString(l.Lookup, "VOICEGATE_LOG_LEVEL", &cfg.LogLevel)
	overrideString(l.Lookup, "VOICEGATE_VOICE_ID", &cfg.VoiceID)
	overrideString(l.Lookup, "VOICEGATE_MODEL", &cfg.Model)
	overrideString(l.Lookup, "VOICEGATE_CACHE_DIR", &cfg.CacheDir)
	if err := overrideBool(l.Lookup, "VOICEGATE_USE_STUB_ENGINE", &cfg.UseStubEngine); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(path string, cfg *Config) error {
	type yamlConfig struct {
		ListenAddr      string   `yaml:"listen_addr"`
		APIKey          string   `yaml:"api_key"`
		VoiceID         string   `yaml:"voice_id"`
		Model           string   `yaml:"model"`
		LogLevel        string   `yaml:"log_level"`
		LogFile         string   `yaml:"log_file"`
		Env             string   `yaml:"env"`
		Stability       *float64 `yaml:"stability"`
		SimilarityBoost *float64 `yaml:"similarity_boost"`
		UseStubEngine   *bool    `yaml:"use_stub_engine"`
		CacheDir        string   `yaml:"cache_dir"`
		CacheMaxSizeMB  *int     `yaml:"cache_max_size_mb"`
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var payload yamlConfig
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	if payload.ListenAddr != "" {
		cfg.ListenAddr = payload.ListenAddr
	}
	if payload.APIKey != "" {
		cfg.APIKey = payload.APIKey
	}
	if payload.VoiceID != "" {
		cfg.VoiceID = payload.VoiceID
	}
	if payload.Model != "" {
		cfg.Model = payload.Model
	}
	if payload.LogLevel != "" {
		cfg.LogLevel = payload.LogLevel
	}
	if payload.LogFile != "" {
		cfg.LogFile = payload.LogFile
	}
	if payload.Env != "" {
		cfg.Env = payload.Env
	}
	if payload.Stability != nil {
		assignFloat64Ptr(&cfg.Stability, *payload.Stability)
	}
	if payload.SimilarityBoost != nil {
		assignFloat64Ptr(&cfg.SimilarityBoost, *payload.SimilarityBoost)
	}
	if payload.UseStubEngine != nil {
		cfg.UseStubEngine = *payload.UseStubEngine
	}
	if payload.CacheDir != "" {
		cfg.CacheDir = payload.CacheDir
	}
	if payload.CacheMaxSizeMB != nil {
		cfg.CacheMaxSizeMB = *payload.CacheMaxSizeMB
	}
	return nil
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if lookup == nil || target == nil {
		return
	}
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideBool(lookup func(string) (string, bool), key string, target *bool) error {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("config: %s must be a boolean, got %q", key, value)
	}
	*target = parsed
	return nil
}

func assignFloat64Ptr(target **float64, value float64) {
	v := value
	*target = &v
}
