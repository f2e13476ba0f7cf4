// Package config resolves newsdigest settings from defaults, the YAML config
// file and environment variables, in that order of precedence (lowest
// first).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pevans/newsdigest/discovery"
	"github.com/pevans/newsdigest/sources"
)

// Configuration validation errors.
var (
	ErrMissingOutputDir = errors.New("output_dir is required")
	ErrInvalidTimeout   = errors.New("fetch.timeout must be a positive duration")
	ErrInvalidLogLevel  = errors.New("log_level must be one of: debug, info, warn, error")
)

// Environment variables read by Load.
const (
	EnvConfig     = "NEWSDIGEST_CONFIG"
	EnvOutputDir  = "NEWSDIGEST_OUTPUT_DIR"
	EnvArchiveDSN = "NEWSDIGEST_ARCHIVE_DSN"
	EnvUserAgent  = "NEWSDIGEST_USER_AGENT"
	EnvTimeout    = "NEWSDIGEST_TIMEOUT"
	EnvLogLevel   = "NEWSDIGEST_LOG_LEVEL"
	EnvAPIAddr    = "NEWSDIGEST_API_ADDR"
)

// Defaults.
const (
	DefaultOutputDir = "data"
	DefaultLogLevel  = "info"
	DefaultAPIAddr   = "localhost:8080"
	archiveFileName  = "archive.db"
)

// Config holds the resolved settings.
type Config struct {
	OutputDir string
	// ArchiveDSN is the SQLite path of the run archive; empty disables it.
	ArchiveDSN string
	UserAgent  string
	Timeout    time.Duration
	LogLevel   string
	APIAddr    string
	// Profiles are the source profiles defined in the config file.
	Profiles []sources.Profile
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		OutputDir:  DefaultOutputDir,
		ArchiveDSN: filepath.Join(DefaultOutputDir, archiveFileName),
		UserAgent:  discovery.DefaultUserAgent,
		Timeout:    discovery.DefaultTimeout,
		LogLevel:   DefaultLogLevel,
		APIAddr:    DefaultAPIAddr,
	}
}

// Load resolves the configuration: defaults, then the config file named by
// NEWSDIGEST_CONFIG (or ~/.newsdigest/config.yaml), then environment
// variables.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	fileCfg, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}

	return Resolve(fileCfg, os.Getenv)
}

// Resolve builds a Config from defaults, an optional file config and an
// environment lookup function.
func Resolve(fileCfg *FileConfig, getenv func(string) string) (*Config, error) {
	cfg := Default()
	archiveSet := false
	archiveDisabled := false

	if fileCfg != nil {
		if fileCfg.OutputDir != "" {
			cfg.OutputDir = fileCfg.OutputDir
		}
		if fileCfg.LogLevel != "" {
			cfg.LogLevel = fileCfg.LogLevel
		}
		if fileCfg.Archive.DSN != "" {
			cfg.ArchiveDSN = fileCfg.Archive.DSN
			archiveSet = true
		}
		archiveDisabled = fileCfg.Archive.Disabled
		if fileCfg.Fetch.UserAgent != "" {
			cfg.UserAgent = fileCfg.Fetch.UserAgent
		}
		if fileCfg.Fetch.Timeout != "" {
			timeout, err := parseTimeout(fileCfg.Fetch.Timeout)
			if err != nil {
				return nil, err
			}
			cfg.Timeout = timeout
		}
		if fileCfg.API.Addr != "" {
			cfg.APIAddr = fileCfg.API.Addr
		}
		cfg.Profiles = fileCfg.Sources
	}

	if v := getenv(EnvOutputDir); v != "" {
		cfg.OutputDir = v
	}
	if v := getenv(EnvArchiveDSN); v != "" {
		cfg.ArchiveDSN = v
		archiveSet = true
		archiveDisabled = false
	}
	if v := getenv(EnvUserAgent); v != "" {
		cfg.UserAgent = v
	}
	if v := getenv(EnvTimeout); v != "" {
		timeout, err := parseTimeout(v)
		if err != nil {
			return nil, err
		}
		cfg.Timeout = timeout
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv(EnvAPIAddr); v != "" {
		cfg.APIAddr = v
	}

	// The archive follows the output directory unless placed explicitly
	if !archiveSet {
		cfg.ArchiveDSN = filepath.Join(cfg.OutputDir, archiveFileName)
	}
	if archiveDisabled {
		cfg.ArchiveDSN = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the resolved settings.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return ErrMissingOutputDir
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}

// Registry builds the profile registry: the stock profiles plus the ones
// defined in the config file.
func (c *Config) Registry() (*sources.Registry, error) {
	registry, err := sources.NewRegistry(c.Profiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load source profiles: %w", err)
	}
	return registry, nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, s)
	}
	return d, nil
}
