// Package config loads docsite configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all docsite settings.
type Config struct {
	// Docs is the root directory of the documentation tree.
	Docs string `yaml:"docs" env:"DOCSITE_DOCS"`

	Serve ServeConfig `yaml:"serve" envPrefix:"DOCSITE_SERVE_"`
	MCP   MCPConfig   `yaml:"mcp" envPrefix:"DOCSITE_MCP_"`
	Index IndexConfig `yaml:"index" envPrefix:"DOCSITE_INDEX_"`
	Check CheckConfig `yaml:"check"`
	Debug bool        `yaml:"debug" env:"DOCSITE_DEBUG"`
}

// ServeConfig configures the docs HTTP server.
type ServeConfig struct {
	Addr          string        `yaml:"addr" env:"ADDR"`
	Watch         bool          `yaml:"watch" env:"WATCH"`
	WatchDebounce time.Duration `yaml:"watch_debounce" env:"WATCH_DEBOUNCE"`
}

// UnmarshalYAML decodes watch_debounce from a duration string ("250ms",
// "1s") and leaves absent keys at their current values.
func (c *ServeConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Addr          *string `yaml:"addr"`
		Watch         *bool   `yaml:"watch"`
		WatchDebounce *string `yaml:"watch_debounce"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Addr != nil {
		c.Addr = *raw.Addr
	}
	if raw.Watch != nil {
		c.Watch = *raw.Watch
	}
	if raw.WatchDebounce != nil {
		debounce, err := time.ParseDuration(*raw.WatchDebounce)
		if err != nil {
			return fmt.Errorf("invalid watch_debounce: %w", err)
		}
		c.WatchDebounce = debounce
	}
	return nil
}

// MCPConfig configures the MCP surface.
type MCPConfig struct {
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`
}

// IndexConfig configures the sqlite page index.
type IndexConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

// CheckConfig overrides rule severities, keyed by rule name with values
// "error", "warning" or "off".
type CheckConfig struct {
	Severities map[string]string `yaml:"severities"`
	Workers    int               `yaml:"workers"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Docs: "docs",
		Serve: ServeConfig{
			Addr:          ":8080",
			Watch:         true,
			WatchDebounce: 250 * time.Millisecond,
		},
		MCP: MCPConfig{
			Endpoint: "/mcp",
		},
		Index: IndexConfig{
			Path: ".docsite/index.db",
		},
		Check: CheckConfig{
			Workers: 8,
		},
	}
}

// Load reads the config file at path, falling back to defaults when it does
// not exist, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file is fine, defaults plus env apply.
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse env: %w", err)
	}
	return cfg, nil
}
