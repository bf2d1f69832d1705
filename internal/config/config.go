// (c) Copyright ZeroEval Inc. 2026

// Package config reads and writes the CLI configuration file stored at
// ~/.zeroeval/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	configDir  = ".zeroeval"
	configFile = "config.yaml"
)

// Config holds the persisted CLI settings
type Config struct {
	APIKey      string `yaml:"api_key"`
	APIURL      string `yaml:"api_url,omitempty"`
	WorkspaceID string `yaml:"workspace_id,omitempty"`
}

// Path returns the location of the configuration file
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}

	return filepath.Join(home, configDir, configFile), nil
}

// Load reads the configuration file. A missing file yields an empty config
// rather than an error.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the configuration from the given path
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}

		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to its default location, creating the
// directory if needed. The file is written with owner-only permissions as it
// contains the API key.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	return SaveTo(path, cfg)
}

// SaveTo writes the configuration to the given path
func SaveTo(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Env renders the configuration as ZEROEVAL_* environment variable
// assignments suitable for passing to a child process
func (cfg Config) Env() []string {
	var env []string
	if cfg.APIKey != "" {
		env = append(env, "ZEROEVAL_API_KEY="+cfg.APIKey)
	}
	if cfg.APIURL != "" {
		env = append(env, "ZEROEVAL_API_URL="+cfg.APIURL)
	}
	if cfg.WorkspaceID != "" {
		env = append(env, "ZEROEVAL_WORKSPACE_ID="+cfg.WorkspaceID)
	}

	return env
}
