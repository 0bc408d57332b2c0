// Package config provides configuration loading for the planner and the UI
// settings document consumed by the API.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config represents the complete planner configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Watch   WatchConfig   `yaml:"watch"`
	Report  ReportConfig  `yaml:"report"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	// Port is the HTTP listen port (default: 8080)
	Port int `yaml:"port"`
	// AllowedOrigins feeds the CORS middleware
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

// StorageConfig selects where the planning document lives
type StorageConfig struct {
	// Backend is one of json, sqlite, memory
	Backend string `yaml:"backend"`
	// DataPath is the JSON document (json backend)
	DataPath string `yaml:"data_path"`
	// SettingsPath is the sibling UI settings document (json backend)
	SettingsPath string `yaml:"settings_path"`
	// SQLitePath is the database file; ":memory:" for an in-memory database
	SQLitePath string `yaml:"sqlite_path"`
}

// WatchConfig reloads the JSON document when it changes on disk
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// ReportConfig controls the background report refresh that feeds metrics
type ReportConfig struct {
	Enabled         bool          `yaml:"enabled"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// LogConfig configures the slog handler
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
	// Format is text or json
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
		},
		Storage: StorageConfig{
			Backend:      BackendJSON,
			DataPath:     "resource_data.json",
			SettingsPath: "settings.json",
			SQLitePath:   "planner.db",
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 500 * time.Millisecond,
		},
		Report: ReportConfig{
			Enabled:         true,
			RefreshInterval: time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	switch c.Storage.Backend {
	case BackendJSON:
		if c.Storage.DataPath == "" {
			return fmt.Errorf("storage.data_path is required for the json backend")
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("storage.backend must be json, sqlite or memory, got %q", c.Storage.Backend)
	}
	if c.Report.Enabled && c.Report.RefreshInterval <= 0 {
		return fmt.Errorf("report.refresh_interval must be positive")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Merge overlays the non-zero fields of other onto c
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if len(other.Server.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = other.Server.AllowedOrigins
	}
	if other.Server.ReadTimeout != 0 {
		c.Server.ReadTimeout = other.Server.ReadTimeout
	}
	if other.Server.WriteTimeout != 0 {
		c.Server.WriteTimeout = other.Server.WriteTimeout
	}
	if other.Storage.Backend != "" {
		c.Storage.Backend = other.Storage.Backend
	}
	if other.Storage.DataPath != "" {
		c.Storage.DataPath = other.Storage.DataPath
	}
	if other.Storage.SettingsPath != "" {
		c.Storage.SettingsPath = other.Storage.SettingsPath
	}
	if other.Storage.SQLitePath != "" {
		c.Storage.SQLitePath = other.Storage.SQLitePath
	}
	// Booleans can't be told apart from "unset"; a file that mentions the
	// section decides.
	if other.Watch.Enabled || other.Watch.Debounce != 0 {
		c.Watch.Enabled = other.Watch.Enabled
	}
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if other.Report.Enabled || other.Report.RefreshInterval != 0 {
		c.Report.Enabled = other.Report.Enabled
	}
	if other.Report.RefreshInterval != 0 {
		c.Report.RefreshInterval = other.Report.RefreshInterval
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
}

// LoadFromFile reads a YAML config file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveToFile writes the config as YAML, creating parent directories
func (c *Config) SaveToFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// NewLogger builds the process logger from LogConfig
func NewLogger(lc LogConfig) *slog.Logger {
	level, err := parseLevel(lc.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level must be debug, info, warn or error, got %q", s)
	}
}
