// Package config holds build-wide constants and the elimc.yaml
// configuration that tunes the pattern-match compiler, the tree cache
// and the checking service.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level elimc.yaml configuration.
type Config struct {
	// MissingClausesLimit bounds the missing-clause witnesses listed per definition.
	MissingClausesLimit int `yaml:"missing_clauses_limit,omitempty"`

	// MaxNumberPattern is the largest number literal allowed in a pattern.
	MaxNumberPattern int `yaml:"max_number_pattern,omitempty"`

	// AllowInterval permits case splits on the built-in interval type.
	AllowInterval bool `yaml:"allow_interval,omitempty"`

	// Cache is the path of the SQLite tree cache, relative to the config
	// file. Empty disables caching.
	Cache string `yaml:"cache,omitempty"`

	Server ServerConfig `yaml:"server,omitempty"`

	// Color is one of auto, always, never.
	Color string `yaml:"color,omitempty"`

	// Path is the file the configuration was read from ("" for defaults).
	Path string `yaml:"-"`
}

type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Default returns the configuration used when no elimc.yaml exists.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses an elimc.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses elimc.yaml content from bytes.
// The path argument is used for error messages and to resolve the cache path.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindConfig searches for elimc.yaml starting from dir and walking up
// to parent directories.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Resolve finds and loads the configuration governing dir, falling back
// to Default when there is none.
func Resolve(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return LoadConfig(path)
}

// Validate checks the values that have no usable fallback.
func (c *Config) Validate() error {
	path := c.Path
	if path == "" {
		path = "config"
	}
	if c.MissingClausesLimit < 1 {
		return fmt.Errorf("%s: missing_clauses_limit must be at least 1, got %d", path, c.MissingClausesLimit)
	}
	if c.MaxNumberPattern < 1 {
		return fmt.Errorf("%s: max_number_pattern must be at least 1, got %d", path, c.MaxNumberPattern)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: color must be one of auto, always, never, got %q", path, c.Color)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.MissingClausesLimit == 0 {
		c.MissingClausesLimit = DefaultMissingClausesLimit
	}
	if c.MaxNumberPattern == 0 {
		c.MaxNumberPattern = DefaultMaxNumberPattern
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Color == "" {
		c.Color = ColorAuto
	}
}

// CachePath returns the cache database path resolved against the config
// file's directory, or "" when caching is disabled.
func (c *Config) CachePath() string {
	if c.Cache == "" {
		return ""
	}
	if filepath.IsAbs(c.Cache) || c.Path == "" {
		return c.Cache
	}
	return filepath.Join(filepath.Dir(c.Path), c.Cache)
}
