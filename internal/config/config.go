// Package config handles global Muninn configuration and corpus-level
// convention tables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global Muninn configuration (config.toml).
type Config struct {
	// DefaultCorpus is the name of the default corpus (from Corpora map).
	DefaultCorpus string `toml:"default_corpus"`

	// Corpora is a map of corpus names to root paths.
	Corpora map[string]string `toml:"corpora"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// GetCorpusPath returns the root path for a named corpus.
// If name is empty, the default corpus is used.
func (c *Config) GetCorpusPath(name string) (string, error) {
	if name == "" {
		name = c.DefaultCorpus
	}
	if c.Corpora != nil {
		if path, ok := c.Corpora[name]; ok {
			return path, nil
		}
	}
	if name == "" {
		return "", fmt.Errorf("no default corpus configured")
	}
	return "", fmt.Errorf("corpus '%s' not found in config", name)
}

// ResolveConfigPath returns the config file path, preferring an explicit
// override and falling back to ~/.config/muninn/config.toml.
func ResolveConfigPath(override string) string {
	if override != "" {
		return override
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "config.toml"
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "muninn", "config.toml")
}

// Load loads the global config from the default location.
// A missing file yields an empty config, not an error.
func Load() (*Config, error) {
	return LoadFrom(ResolveConfigPath(""))
}

// LoadFrom loads the global config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
