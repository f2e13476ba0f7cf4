package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pevans/newsdigest/discovery"
	"github.com/pevans/newsdigest/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: environment lookup backed by a map
func envMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

// TestResolve_Defaults verifies the built-in settings
func TestResolve_Defaults(t *testing.T) {
	cfg, err := Resolve(nil, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, filepath.Join(DefaultOutputDir, "archive.db"), cfg.ArchiveDSN)
	assert.Equal(t, discovery.DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultAPIAddr, cfg.APIAddr)
	assert.Empty(t, cfg.Profiles)
}

// TestResolve_FileValues verifies config file values override defaults
func TestResolve_FileValues(t *testing.T) {
	fileCfg := &FileConfig{OutputDir: "/app/data", LogLevel: "debug"}
	fileCfg.Fetch.Timeout = "30s"
	fileCfg.Fetch.UserAgent = "custom/1.0"
	fileCfg.API.Addr = ":9000"

	cfg, err := Resolve(fileCfg, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "/app/data", cfg.OutputDir)
	assert.Equal(t, filepath.Join("/app/data", "archive.db"), cfg.ArchiveDSN, "archive follows output dir")
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "custom/1.0", cfg.UserAgent)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9000", cfg.APIAddr)
}

// TestResolve_EnvOverridesFile verifies environment variables win
func TestResolve_EnvOverridesFile(t *testing.T) {
	fileCfg := &FileConfig{OutputDir: "/app/data"}
	fileCfg.Archive.DSN = "/file/archive.db"

	cfg, err := Resolve(fileCfg, envMap(map[string]string{
		EnvOutputDir:  "/env/data",
		EnvArchiveDSN: "/env/archive.db",
		EnvTimeout:    "5s",
		EnvLogLevel:   "warn",
		EnvUserAgent:  "env-agent",
		EnvAPIAddr:    ":7000",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/env/data", cfg.OutputDir)
	assert.Equal(t, "/env/archive.db", cfg.ArchiveDSN)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "env-agent", cfg.UserAgent)
	assert.Equal(t, ":7000", cfg.APIAddr)
}

// TestResolve_ArchiveDisabled verifies the archive can be switched off
func TestResolve_ArchiveDisabled(t *testing.T) {
	fileCfg := &FileConfig{}
	fileCfg.Archive.Disabled = true

	cfg, err := Resolve(fileCfg, envMap(nil))
	require.NoError(t, err)

	assert.Empty(t, cfg.ArchiveDSN)
}

// TestResolve_InvalidTimeout verifies bad durations are rejected
func TestResolve_InvalidTimeout(t *testing.T) {
	fileCfg := &FileConfig{}
	fileCfg.Fetch.Timeout = "soon"

	_, err := Resolve(fileCfg, envMap(nil))
	assert.ErrorIs(t, err, ErrInvalidTimeout)

	_, err = Resolve(nil, envMap(map[string]string{EnvTimeout: "-1s"}))
	assert.ErrorIs(t, err, ErrInvalidTimeout)
}

// TestResolve_InvalidLogLevel verifies unknown log levels are rejected
func TestResolve_InvalidLogLevel(t *testing.T) {
	_, err := Resolve(&FileConfig{LogLevel: "loud"}, envMap(nil))

	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

// TestLoad_FromEnvPath verifies Load reads the file named by
// NEWSDIGEST_CONFIG
func TestLoad_FromEnvPath(t *testing.T) {
	path := writeConfigFile(t, "output_dir: /srv/digests\n")
	t.Setenv(EnvConfig, path)
	t.Setenv(EnvOutputDir, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/digests", cfg.OutputDir)
}

// TestLoad_MissingFile verifies a missing config file falls back to defaults
func TestLoad_MissingFile(t *testing.T) {
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv(EnvOutputDir, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
}

// TestRegistry_IncludesFileProfiles verifies config profiles join the stock
// ones
func TestRegistry_IncludesFileProfiles(t *testing.T) {
	cfg := Default()
	cfg.Profiles = []sources.Profile{{
		Name:   "lobsters",
		URL:    "https://lobste.rs/",
		Format: discovery.FormatHTML,
		Rule:   sources.Builtin()[0].Rule,
	}}

	registry, err := cfg.Registry()
	require.NoError(t, err)

	_, err = registry.Lookup("lobsters")
	assert.NoError(t, err)
	assert.Len(t, registry.Names(), 4)
}

// TestRegistry_InvalidProfile verifies bad config profiles are reported
func TestRegistry_InvalidProfile(t *testing.T) {
	cfg := Default()
	cfg.Profiles = []sources.Profile{{Name: "broken"}}

	_, err := cfg.Registry()

	require.Error(t, err)
	assert.ErrorIs(t, err, sources.ErrInvalidProfile)
	assert.Contains(t, err.Error(), "failed to load source profiles")
}
