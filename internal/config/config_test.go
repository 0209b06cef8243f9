package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "arcdiff.yaml")

	configContent := `archiver: /opt/7zip/7zz
technical_listing: false
include:
  - "*.bsa"
  - "*.ba2"
exclude:
  - "*.tmp"
  - "backup/"
workers: 3
color: never
show_same: true
log_level: debug
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Archiver != "/opt/7zip/7zz" {
		t.Errorf("Expected archiver %q, got %q", "/opt/7zip/7zz", cfg.Archiver)
	}
	if cfg.TechnicalListing {
		t.Error("Expected technical_listing to be false")
	}

	expectedExclude := []string{"*.tmp", "backup/"}
	if len(cfg.Exclude) != len(expectedExclude) {
		t.Fatalf("Expected %d exclude patterns, got %d", len(expectedExclude), len(cfg.Exclude))
	}
	for i, expected := range expectedExclude {
		if cfg.Exclude[i] != expected {
			t.Errorf("Exclude[%d]: expected %q, got %q", i, expected, cfg.Exclude[i])
		}
	}

	if len(cfg.Include) != 2 || cfg.Include[1] != "*.ba2" {
		t.Errorf("Unexpected include patterns: %v", cfg.Include)
	}
	if cfg.Workers != 3 {
		t.Errorf("Expected 3 workers, got %d", cfg.Workers)
	}
	if cfg.Color != ColorNever || !cfg.ShowSame {
		t.Errorf("Unexpected color/show_same: %q %v", cfg.Color, cfg.ShowSame)
	}

	level, err := cfg.Level()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v (%v)", level, err)
	}
}

func TestLoadConfig_PartialKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "arcdiff.yaml")
	if err := os.WriteFile(configPath, []byte("workers: 1\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Archiver != "7z" || !cfg.TechnicalListing {
		t.Errorf("Expected archiver defaults, got %q %v", cfg.Archiver, cfg.TechnicalListing)
	}
	if cfg.Workers != 1 {
		t.Errorf("Expected 1 worker, got %d", cfg.Workers)
	}
}

func TestLoadConfig_NonExistentFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/arcdiff.yaml")
	if err != nil {
		t.Fatalf("LoadConfig should return default config for nonexistent file, got error: %v", err)
	}

	if len(cfg.Include) == 0 {
		t.Error("Default config should have some include patterns")
	}
	if cfg.Color != ColorAuto {
		t.Errorf("Expected default color %q, got %q", ColorAuto, cfg.Color)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `exclude:
  - "*.tmp"
 bad: [indent
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := LoadConfig(configPath); err == nil {
		t.Error("LoadConfig should return error for invalid YAML")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"workers":   "workers: 0\n",
		"color":     "color: sometimes\n",
		"log level": "log_level: loud\n",
		"archiver":  "archiver: \"\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "arcdiff.yaml")
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}

			_, err := LoadConfig(configPath)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadConfig_EmptyConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")

	if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed for empty config: %v", err)
	}
	if cfg.Exclude == nil || cfg.Include == nil {
		t.Error("Patterns should not be nil")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	expectedPatterns := []string{"*.bsa", "*.zip", "*.7z"}
	for _, pattern := range expectedPatterns {
		found := false
		for _, inc := range cfg.Include {
			if inc == pattern {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Default config should include pattern %q", pattern)
		}
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}
