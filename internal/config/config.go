// Package config loads the fex-go configuration file and applies
// environment overrides. Precedence, lowest to highest: built-in defaults,
// config file, environment, CLI flags (applied by the CLI layer).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Application directory name used across all platforms.
const appName = "fex-go"

// Config file name.
const configFileName = "config.toml"

// Default values; layer 0 of the override chain.
const (
	defaultAPIURL   = "https://fex.net"
	defaultLogLevel = "info"
)

// Config is the on-disk configuration for fex-go.
type Config struct {
	// Username is the default login for commands that need one.
	Username string `toml:"username"`

	// APIURL is the service endpoint. Only changed for testing.
	APIURL string `toml:"api_url"`

	// Verify enables post-upload checksum verification by default.
	Verify bool `toml:"verify"`

	// LogLevel is the baseline log level: debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// DataDir overrides where the upload history database lives.
	DataDir string `toml:"data_dir"`

	// SessionDir overrides where credential files live. Empty means the
	// platform temp directory.
	SessionDir string `toml:"session_dir"`
}

// Default returns a Config populated with all default values. Used as the
// starting point for TOML decoding so unset fields keep their defaults.
func Default() *Config {
	return &Config{
		APIURL:   defaultAPIURL,
		LogLevel: defaultLogLevel,
	}
}

// Environment variable names for overrides.
const (
	EnvConfig   = "FEXGO_CONFIG"
	EnvUsername = "FEXGO_USERNAME"
	EnvAPIURL   = "FEXGO_API_URL"
	EnvLogLevel = "FEXGO_LOG_LEVEL"
	EnvDataDir  = "FEXGO_DATA_DIR"
)

// Load reads the config file at path (or the default location when path is
// empty) and applies environment overrides. A missing file is not an
// error — defaults plus environment apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	if path == "" {
		path = filepath.Join(DefaultConfigDir(), configFileName)
	}

	cfg := Default()

	data, err := os.ReadFile(path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No file; defaults apply.
	case err != nil:
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	default:
		if _, decErr := toml.Decode(string(data), cfg); decErr != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, decErr)
		}
	}

	applyEnv(cfg)

	return cfg, nil
}

// applyEnv overlays environment variables onto the config.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvUsername); v != "" {
		cfg.Username = v
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
}

// EffectiveDataDir returns the directory for the upload history database,
// honoring the config override.
func (c *Config) EffectiveDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}

	return DefaultDataDir()
}

// DefaultConfigDir returns the platform-specific directory for config
// files. On Linux, respects XDG_CONFIG_HOME (defaults to ~/.config/fex-go).
// On macOS, uses ~/Library/Application Support/fex-go.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", appName)
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	return filepath.Join(home, ".config", appName)
}

// DefaultDataDir returns the platform-specific directory for application
// data (the upload history database). Respects XDG_DATA_HOME on Linux.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", appName)
	}

	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}

	return filepath.Join(home, ".local", "share", appName)
}
