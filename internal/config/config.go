// Package config handles the XDG configuration directory, the optional
// config file, and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todopro"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// SessionFile holds the active session.
	SessionFile = "session.json"

	// DataDirName holds the local task and account database.
	DataDirName = "data"

	// DefaultBaseURL is the remote service endpoint used when neither
	// the config file nor the environment provides one.
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultTimeout bounds each remote call.
	DefaultTimeout = 10 * time.Second

	// EnvBaseURL overrides the remote base URL.
	EnvBaseURL = "TODOPRO_API_BASE_URL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the remote service base URL.
	BaseURL string

	// Timeout is the per-call remote timeout.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileSettings is the config.yaml shape.
type fileSettings struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// New creates a Config with the default or specified config directory,
// applying config.yaml and environment overrides in that order.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:     dir,
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	if env := os.Getenv(EnvBaseURL); env != "" {
		cfg.BaseURL = env
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// loadFile applies settings from config.yaml if present. A missing file
// is not an error.
func (c *Config) loadFile() error {
	data, err := os.ReadFile(filepath.Join(c.Dir, ConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", ConfigFile, err)
	}
	var settings fileSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	if settings.BaseURL != "" {
		c.BaseURL = settings.BaseURL
	}
	if settings.TimeoutSeconds > 0 {
		c.Timeout = time.Duration(settings.TimeoutSeconds) * time.Second
	}
	return nil
}

// SessionPath returns the path to the session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// DataDir returns the local database directory.
func (c *Config) DataDir() string {
	return filepath.Join(c.Dir, DataDirName)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSession checks if a session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}
