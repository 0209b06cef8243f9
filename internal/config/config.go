package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when no --config flag is given.
const DefaultPath = "arcdiff.yaml"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Archiver is the 7-Zip executable used to list archives.
	Archiver string `yaml:"archiver"`
	// TechnicalListing selects the key/value listing format (7z l -slt).
	TechnicalListing bool `yaml:"technical_listing"`
	// Include holds the file patterns scan treats as archives.
	Include []string `yaml:"include"`
	// Exclude holds patterns skipped by scan. Patterns ending in "/" match
	// directories.
	Exclude  []string `yaml:"exclude"`
	Workers  int      `yaml:"workers"`
	Color    string   `yaml:"color"`
	ShowSame bool     `yaml:"show_same"`
	LogLevel string   `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Archiver:         "7z",
		TechnicalListing: true,
		Include: []string{
			"*.bsa",
			"*.zip",
			"*.7z",
			"*.rar",
			"*.tar",
			"*.gz",
			"*.bz2",
			"*.xz",
			"*.001",
		},
		Exclude: []string{
			".git/",
			".svn/",
			"node_modules/",
			"*.tmp",
			"*.part",
			".DS_Store",
			"Thumbs.db",
		},
		Workers:  runtime.NumCPU() * 2,
		Color:    ColorAuto,
		LogLevel: "info",
	}
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if cfg.Include == nil {
		cfg.Include = []string{}
	}
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values that YAML decoding cannot.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Archiver) == "" {
		return fmt.Errorf("%w: archiver must not be empty", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: color must be auto, always or never, got %q", ErrInvalidConfig, c.Color)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty value means info.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	return level, nil
}
