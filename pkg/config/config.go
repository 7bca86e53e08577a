// Package config loads the StegoShield server and CLI settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xob0t/StegoShield/pkg/imageio"
)

// Config is the complete StegoShield configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Limits  LimitsConfig  `yaml:"limits"`
	Preview PreviewConfig `yaml:"preview"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Address string `yaml:"address"` // host to bind, empty for all interfaces
	Port    int    `yaml:"port"`
}

// LimitsConfig bounds what users may upload.
type LimitsConfig struct {
	MaxUploadBytes    int64    `yaml:"max_upload_bytes"`
	MaxPixels         int      `yaml:"max_pixels"` // per decoded image
	AllowedExtensions []string `yaml:"allowed_extensions"`
	MaxResults        int      `yaml:"max_results"`      // preview results kept for download
	MaxResultBytes    int64    `yaml:"max_result_bytes"` // total size of kept results
}

// PreviewConfig controls the side-by-side preview images.
type PreviewConfig struct {
	MaxSide int `yaml:"max_side"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Limits: LimitsConfig{
			MaxUploadBytes:    32 << 20,
			MaxPixels:         40_000_000,
			AllowedExtensions: append([]string(nil), imageio.DefaultInputExtensions...),
			MaxResults:        64,
			MaxResultBytes:    256 << 20,
		},
		Preview: PreviewConfig{MaxSide: 512},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values. An empty path returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Limits.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("limits.max_upload_bytes must be positive"))
	}
	if c.Limits.MaxPixels <= 0 {
		errs = append(errs, fmt.Errorf("limits.max_pixels must be positive"))
	}
	if c.Limits.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("limits.max_results must be positive"))
	}
	if c.Limits.MaxResultBytes <= 0 {
		errs = append(errs, fmt.Errorf("limits.max_result_bytes must be positive"))
	}
	if len(c.Limits.AllowedExtensions) == 0 {
		errs = append(errs, fmt.Errorf("limits.allowed_extensions is empty"))
	}
	if c.Preview.MaxSide <= 0 {
		errs = append(errs, fmt.Errorf("preview.max_side must be positive"))
	}
	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: use text or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return lvl, nil
}

// NewLogger builds a slog.Logger writing to w. Invalid settings fall back
// to info level and the text handler.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := l.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.ToLower(l.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
