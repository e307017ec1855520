// Package config loads server settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/erazemk/izgubljeno/internal/match"
)

// Config holds all server settings. Command-line flags override file values.
type Config struct {
	Addr     string `yaml:"addr"`
	DBPath   string `yaml:"db"`
	LogPath  string `yaml:"log"`
	LogLevel string `yaml:"log_level"`

	Store     Store    `yaml:"store"`
	Matching  Matching `yaml:"matching"`
	Images    Images   `yaml:"images"`
	Locations []string `yaml:"locations"`
}

// Store configures item store access.
type Store struct {
	// Timeout bounds each store operation. Zero disables it.
	Timeout time.Duration `yaml:"timeout"`
}

// Matching configures the match finder.
type Matching struct {
	Weights   match.Weights `yaml:"weights"`
	Threshold float64       `yaml:"threshold"`
}

// Images configures the image read cache.
type Images struct {
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// DefaultLocations are the campus spaces offered when none are configured.
var DefaultLocations = []string{
	"Library",
	"Student Union",
	"Science Building",
	"Cafeteria",
	"Gymnasium",
	"Dormitory",
	"Engineering Building",
	"Arts Center",
	"Quad",
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:     ":8080",
		DBPath:   "izgubljeno.sqlite3",
		LogLevel: "info",
		Store:    Store{Timeout: 5 * time.Second},
		Matching: Matching{
			Weights:   match.DefaultWeights(),
			Threshold: match.DefaultThreshold,
		},
		Images: Images{
			CacheSize: 256,
			CacheTTL:  time.Hour,
		},
		Locations: DefaultLocations,
	}
}

// Load returns the defaults overlaid with the YAML file at path.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	if err := cfg.decode(f); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks settings that cannot be fixed up silently.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr required")
	}
	if c.DBPath == "" {
		return errors.New("db required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Store.Timeout < 0 {
		return errors.New("store.timeout must not be negative")
	}
	if err := c.Matching.Weights.Validate(); err != nil {
		return fmt.Errorf("matching.weights: %w", err)
	}
	if c.Matching.Threshold < 0 || c.Matching.Threshold >= match.MaxScore {
		return fmt.Errorf("matching.threshold must be in [0, %d)", match.MaxScore)
	}
	if c.Matching.Threshold < c.Matching.Weights.Category {
		return fmt.Errorf("matching.threshold (%g) must not be below the category weight (%g)",
			c.Matching.Threshold, c.Matching.Weights.Category)
	}
	if c.Images.CacheSize <= 0 {
		return errors.New("images.cache_size must be positive")
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
