package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pevans/newsdigest/sources"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the structure of ~/.newsdigest/config.yaml.
type FileConfig struct {
	OutputDir string `yaml:"output_dir"`
	LogLevel  string `yaml:"log_level"`
	Archive   struct {
		DSN      string `yaml:"dsn"`
		Disabled bool   `yaml:"disabled"`
	} `yaml:"archive"`
	Fetch struct {
		UserAgent string `yaml:"user_agent"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"fetch"`
	API struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
	Sources []sources.Profile `yaml:"sources"`
}

// DefaultConfigPath returns ~/.newsdigest/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".newsdigest", "config.yaml"), nil
}

// LoadConfigFile loads configuration from path. Returns nil if the file
// doesn't exist (not an error). Returns error if the file exists but cannot
// be parsed.
func LoadConfigFile(path string) (*FileConfig, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
