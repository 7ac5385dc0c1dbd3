// Package config handles configuration loading and validation for tada.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ToastMode selects which toast holder the process uses.
type ToastMode string

const (
	// ToastModeQueue keeps every pending toast and expires them oldest first.
	ToastModeQueue ToastMode = "queue"
	// ToastModeSlot keeps only the latest toast.
	ToastModeSlot ToastMode = "slot"
)

// IsValid reports whether m is a known mode.
func (m ToastMode) IsValid() bool {
	return m == ToastModeQueue || m == ToastModeSlot
}

// Config holds the application configuration.
type Config struct {
	Toast    ToastConfig    `yaml:"toast"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	TUI      TUIConfig      `yaml:"tui"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// ToastConfig controls transient notifications.
type ToastConfig struct {
	Mode  ToastMode     `yaml:"mode"`
	Delay time.Duration `yaml:"delay"`
}

// DatabaseConfig holds SQLite connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Toast: ToastConfig{
			Mode:  ToastModeQueue,
			Delay: 5 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ShutdownTimeout: 5 * time.Second,
		},
		TUI: TUIConfig{
			Theme: DefaultTheme,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Toast.Mode == "" {
		c.Toast.Mode = defaults.Toast.Mode
	}
	if c.Toast.Delay == 0 {
		c.Toast.Delay = defaults.Toast.Delay
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}
