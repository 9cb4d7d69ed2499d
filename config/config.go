package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tigre/patterns"
)

// Config represents the complete tracker configuration
type Config struct {
	Store   StoreConfig   `json:"store" yaml:"store"`
	Matcher MatcherConfig `json:"matcher" yaml:"matcher"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// StoreConfig selects where the state document lives
type StoreConfig struct {
	Type string `json:"type" yaml:"type"` // "sqlite", "file" or "memory"
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// MatcherConfig tunes the pattern catalog
type MatcherConfig struct {
	Fallback           bool `json:"fallback" yaml:"fallback"`
	DominanceWindow    int  `json:"dominance_window" yaml:"dominance_window"`
	DominanceThreshold int  `json:"dominance_threshold" yaml:"dominance_threshold"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level   string `json:"level" yaml:"level"`
	Console bool   `json:"console" yaml:"console"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set
type MetricsConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// MatcherOptions converts the matcher section into patterns options.
func (m MatcherConfig) MatcherOptions() []patterns.Option {
	return []patterns.Option{
		patterns.WithFallback(m.Fallback),
		patterns.WithDominance(m.DominanceWindow, m.DominanceThreshold),
	}
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Missing keys keep their defaults.
	cfg := Default()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from TIGRE_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("TIGRE_STORE_TYPE"); ok {
		c.Store.Type = v
	}
	if v, ok := os.LookupEnv("TIGRE_STORE_PATH"); ok {
		c.Store.Path = v
	}
	if v, ok := os.LookupEnv("TIGRE_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv("TIGRE_METRICS_ADDR"); ok {
		c.Metrics.Addr = v
	}
	if v, ok := os.LookupEnv("TIGRE_FALLBACK"); ok {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TIGRE_FALLBACK: %w", err)
		}
		c.Matcher.Fallback = on
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Type {
	case "sqlite", "file":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path required for %s store", c.Store.Type)
		}
	case "memory":
	default:
		return fmt.Errorf("store.type must be 'sqlite', 'file' or 'memory'")
	}
	if c.Matcher.DominanceWindow < patterns.MinSequence {
		return fmt.Errorf("matcher.dominance_window must be at least %d", patterns.MinSequence)
	}
	if c.Matcher.DominanceThreshold*2 <= c.Matcher.DominanceWindow || c.Matcher.DominanceThreshold > c.Matcher.DominanceWindow {
		return fmt.Errorf("matcher.dominance_threshold must be a majority of dominance_window")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Type: "sqlite",
			Path: "./tigre.sqlite",
		},
		Matcher: MatcherConfig{
			Fallback:           false,
			DominanceWindow:    patterns.DefaultDominanceWindow,
			DominanceThreshold: patterns.DefaultDominanceThreshold,
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}
