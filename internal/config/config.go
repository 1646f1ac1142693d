// Package config holds the run configuration for stepmerge. Values load from
// an optional YAML file, can be overridden by STEPMERGE_* environment
// variables, and are finally overridden by command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all stepmerge configuration.
type Config struct {
	// SOP is the current SOP code scoping inputs and outputs (e.g. LineEnt).
	SOP string `yaml:"sop"`

	// OutputDir receives all artifacts.
	OutputDir string `yaml:"output_dir"`

	// LatestAlias maintains the unstamped *_latest alias per stage.
	LatestAlias bool `yaml:"latest_alias"`

	// Suggest tunes the manual-assist fuzzy matcher.
	Suggest SuggestConfig `yaml:"suggest"`

	// Logging configures the run logger.
	Logging LoggingConfig `yaml:"logging"`
}

// SuggestConfig tunes the advisory fuzzy suggester.
type SuggestConfig struct {
	Threshold      float64  `yaml:"threshold"`
	Metric         string   `yaml:"metric"` // jaro, jaro_winkler, levenshtein, sorensen_dice
	MaxCandidates  int      `yaml:"max_candidates"`
	IgnorePrefixes []string `yaml:"ignore_code_prefixes"`
	Workers        int      `yaml:"workers"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:   "out",
		LatestAlias: true,
		Suggest: SuggestConfig{
			Threshold:      0.80,
			Metric:         "jaro_winkler",
			MaxCandidates:  3,
			IgnorePrefixes: []string{"D", "N", "Y"},
			Workers:        4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets environment variables override file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("STEPMERGE_SOP"); v != "" {
		c.SOP = v
	}
	if v := os.Getenv("STEPMERGE_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("STEPMERGE_SUGGEST_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Suggest.Threshold = f
		}
	}
	if v := os.Getenv("STEPMERGE_SUGGEST_METRIC"); v != "" {
		c.Suggest.Metric = v
	}
}

var validMetrics = map[string]bool{
	"jaro":          true,
	"jaro_winkler":  true,
	"levenshtein":   true,
	"sorensen_dice": true,
}

// Validate checks the configuration for values no run could use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SOP) == "" {
		return fmt.Errorf("sop is required (set it in the config file, STEPMERGE_SOP, or --sop)")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.Suggest.Threshold < 0 || c.Suggest.Threshold > 1 {
		return fmt.Errorf("suggest.threshold must be within [0, 1], got %v", c.Suggest.Threshold)
	}
	if c.Suggest.Metric != "" && !validMetrics[c.Suggest.Metric] {
		return fmt.Errorf("unknown suggest.metric %q", c.Suggest.Metric)
	}
	if c.Suggest.MaxCandidates < 1 {
		return fmt.Errorf("suggest.max_candidates must be at least 1, got %d", c.Suggest.MaxCandidates)
	}
	if c.Suggest.Workers < 1 {
		return fmt.Errorf("suggest.workers must be at least 1, got %d", c.Suggest.Workers)
	}
	return nil
}
