package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.OutputDir != "out" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "out")
	}
	if !cfg.LatestAlias {
		t.Error("LatestAlias should default to true")
	}
	if cfg.Suggest.Threshold != 0.80 {
		t.Errorf("Suggest.Threshold = %v, want 0.80", cfg.Suggest.Threshold)
	}
	if cfg.Suggest.Metric != "jaro_winkler" {
		t.Errorf("Suggest.Metric = %q, want jaro_winkler", cfg.Suggest.Metric)
	}
	if got := cfg.Suggest.IgnorePrefixes; len(got) != 3 || got[0] != "D" || got[1] != "N" || got[2] != "Y" {
		t.Errorf("Suggest.IgnorePrefixes = %v, want [D N Y]", got)
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputDir != "out" {
		t.Errorf("OutputDir = %q, want default", cfg.OutputDir)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stepmerge.yaml")

	cfg := DefaultConfig()
	cfg.SOP = "Tech"
	cfg.Suggest.Threshold = 0.9
	cfg.Suggest.Metric = "levenshtein"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.SOP != "Tech" {
		t.Errorf("SOP = %q, want Tech", loaded.SOP)
	}
	if loaded.Suggest.Threshold != 0.9 {
		t.Errorf("Threshold = %v, want 0.9", loaded.Suggest.Threshold)
	}
	if loaded.Suggest.Metric != "levenshtein" {
		t.Errorf("Metric = %q, want levenshtein", loaded.Suggest.Metric)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stepmerge.yaml")
	if err := os.WriteFile(path, []byte("sop: Tech\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.SOP != "Tech" {
		t.Errorf("SOP = %q, want Tech", loaded.SOP)
	}
	if loaded.Suggest.MaxCandidates != 3 {
		t.Errorf("MaxCandidates = %d, want default 3", loaded.Suggest.MaxCandidates)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STEPMERGE_SOP", "LineEnt")
	t.Setenv("STEPMERGE_OUTPUT_DIR", "artifacts")
	t.Setenv("STEPMERGE_SUGGEST_THRESHOLD", "0.7")
	t.Setenv("STEPMERGE_SUGGEST_METRIC", "jaro")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SOP != "LineEnt" {
		t.Errorf("SOP = %q, want LineEnt", cfg.SOP)
	}
	if cfg.OutputDir != "artifacts" {
		t.Errorf("OutputDir = %q, want artifacts", cfg.OutputDir)
	}
	if cfg.Suggest.Threshold != 0.7 {
		t.Errorf("Threshold = %v, want 0.7", cfg.Suggest.Threshold)
	}
	if cfg.Suggest.Metric != "jaro" {
		t.Errorf("Metric = %q, want jaro", cfg.Suggest.Metric)
	}
}

func TestEnvOverrides_BadThresholdIgnored(t *testing.T) {
	t.Setenv("STEPMERGE_SOP", "Tech")
	t.Setenv("STEPMERGE_SUGGEST_THRESHOLD", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Suggest.Threshold != 0.80 {
		t.Errorf("Threshold = %v, want default kept", cfg.Suggest.Threshold)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.SOP = "Tech"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing sop", func(c *Config) { c.SOP = " " }},
		{"missing output dir", func(c *Config) { c.OutputDir = "" }},
		{"threshold above one", func(c *Config) { c.Suggest.Threshold = 1.2 }},
		{"negative threshold", func(c *Config) { c.Suggest.Threshold = -0.1 }},
		{"unknown metric", func(c *Config) { c.Suggest.Metric = "cosine" }},
		{"zero candidates", func(c *Config) { c.Suggest.MaxCandidates = 0 }},
		{"zero workers", func(c *Config) { c.Suggest.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
