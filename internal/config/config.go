// Package config loads slide-tools-mcp settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/slide-tools-mcp/internal/region"
	"github.com/ironsheep/slide-tools-mcp/internal/slide"
)

// Environment variables consulted by FromEnv.
const (
	EnvConfigPath = "SLIDE_MCP_CONFIG"
	EnvLogLevel   = "SLIDE_MCP_LOG_LEVEL"
)

// Config represents the server configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Backends lists decoding backends in the order they are tried.
	Backends []string `yaml:"backends"`

	Raster struct {
		// MinLevelSize is the smallest edge of a synthesized pyramid level.
		MinLevelSize int `yaml:"min_level_size"`
	} `yaml:"raster"`

	Extract struct {
		// MaxPixels caps the size of a single region.
		MaxPixels int64 `yaml:"max_pixels"`

		// Workers bounds concurrent reads within one batch. Leave at 1
		// unless every configured backend is safe for concurrent reads on
		// one handle.
		Workers int `yaml:"workers"`
	} `yaml:"extract"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{
		LogLevel: "info",
		Backends: []string{"openslide", "raster"},
	}
	cfg.Raster.MinLevelSize = slide.DefaultMinLevelSize
	cfg.Extract.MaxPixels = region.DefaultMaxPixels
	cfg.Extract.Workers = 1
	return cfg
}

// Validate rejects unknown settings and resets out-of-range values to their
// defaults.
func (c *Config) Validate() error {
	def := DefaultConfig()

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if len(c.Backends) == 0 {
		c.Backends = def.Backends
	}
	for _, b := range c.Backends {
		if _, err := slide.NewBackend(b, slide.BackendOptions{}); err != nil {
			return err
		}
	}
	if c.Raster.MinLevelSize <= 0 {
		c.Raster.MinLevelSize = def.Raster.MinLevelSize
	}
	if c.Extract.MaxPixels <= 0 {
		c.Extract.MaxPixels = def.Extract.MaxPixels
	}
	if c.Extract.Workers <= 0 {
		c.Extract.Workers = def.Extract.Workers
	}
	return nil
}

// LoadConfig loads configuration from a YAML file. If the file does not
// exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// FromEnv loads the file named by path, or by SLIDE_MCP_CONFIG when path is
// empty, then applies SLIDE_MCP_LOG_LEVEL.
func FromEnv(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		if _, err := ParseLevel(lvl); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// ParseLevel converts a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// NewLogger returns a JSON slog.Logger writing to stderr at the configured
// level. Stdout carries the protocol.
func (c *Config) NewLogger() *slog.Logger {
	lvl, _ := ParseLevel(c.LogLevel)
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(h)
}

// BuildOpener creates the slide opener described by the configuration.
func (c *Config) BuildOpener(logger *slog.Logger) (*slide.Opener, error) {
	backends := make([]slide.Backend, 0, len(c.Backends))
	for _, name := range c.Backends {
		b, err := slide.NewBackend(name, slide.BackendOptions{MinLevelSize: c.Raster.MinLevelSize})
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}
	return slide.NewOpener(logger, backends...), nil
}

// BuildExtractor creates the region extractor described by the configuration.
func (c *Config) BuildExtractor(logger *slog.Logger) *region.Extractor {
	return &region.Extractor{
		MaxPixels: c.Extract.MaxPixels,
		Workers:   c.Extract.Workers,
		Logger:    logger,
	}
}
