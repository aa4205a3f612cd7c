package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Source SourceConfig      `yaml:"source"`
	Bundle BundleConfig      `yaml:"bundle"`
	Cache  CacheConfig       `yaml:"cache"`
	Server ServerConfig      `yaml:"server"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if err := c.Bundle.Validate(); err != nil {
		return err
	}
	return c.Server.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return nil
}

// SourceConfig describes the documentation tree to convert.
type SourceConfig struct {
	Path    string `yaml:"path"`
	Scheme  string `yaml:"scheme"`
	Workers int    `yaml:"workers"`
}

// Validate validates the source configuration.
func (c *SourceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Scheme, validation.Required),
		validation.Field(&c.Workers, validation.Min(1), validation.Max(64)),
	)
}

// BundleConfig holds the output bundle location.
type BundleConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the bundle configuration.
func (c *BundleConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// CacheConfig holds the incremental build cache settings. An empty path
// disables the cache entirely; every run then rewrites the full bundle.
type CacheConfig struct {
	Path string `yaml:"path"`
}

// Enabled returns true when the build cache is configured.
func (c *CacheConfig) Enabled() bool {
	return c.Path != ""
}

// ServerConfig names the MCP server the bridge announces.
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Version, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Source: SourceConfig{
			Path:    "./docs",
			Scheme:  "docs",
			Workers: 4,
		},
		Bundle: BundleConfig{
			Path: "./bundle",
		},
		Cache: CacheConfig{
			Path: "./ansuz-cache.db",
		},
		Server: ServerConfig{
			Name:    "Ansuz",
			Version: "1.0.0",
		},
	}
}
