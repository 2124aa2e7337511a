package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// CLIConfig is the client configuration file.
type CLIConfig struct {
	Server      string `yaml:"server,omitempty"`
	Token       string `yaml:"token,omitempty"`
	CAFile      string `yaml:"ca_file,omitempty"`
	Output      string `yaml:"output,omitempty"`
	HistoryFile string `yaml:"history_file,omitempty"`
}

// Default returns the built-in client defaults.
func Default() *CLIConfig {
	return &CLIConfig{
		Server: "127.0.0.1:9110",
		Output: "table",
	}
}

// DefaultConfigPath returns ~/.aaamesh/cli.yaml, or "" if the home
// directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".aaamesh", "cli.yaml")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*CLIConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cli config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse cli config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions, since it may
// carry a token.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		return errors.New("config: no path to save to")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode cli config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
