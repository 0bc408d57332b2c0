package config

import (
	"log/slog"
	"os"
	"strconv"
)

const (
	// ProjectConfigFile is looked up in the working directory when no
	// explicit path is given
	ProjectConfigFile = "planner.yaml"

	EnvPort    = "PLANNER_PORT"
	EnvData    = "PLANNER_DATA"
	EnvBackend = "PLANNER_BACKEND"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	getenv func(string) string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, getenv: os.Getenv}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. Config file (explicit path, else planner.yaml in the working directory)
// 3. Environment variables
//
// An explicit path that can't be read is an error; a missing planner.yaml
// is not.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", path))
		cfg.Merge(fileCfg)
	} else if fileCfg, err := LoadFromFile(ProjectConfigFile); err == nil {
		l.logger.Debug("Loaded project config", slog.String("path", ProjectConfigFile))
		cfg.Merge(fileCfg)
	} else if !os.IsNotExist(err) {
		l.logger.Warn("Failed to load project config", slog.String("path", ProjectConfigFile), slog.String("error", err.Error()))
	}

	l.applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) applyEnv(cfg *Config) {
	if v := l.getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		} else {
			l.logger.Warn("Ignoring invalid port", slog.String("env", EnvPort), slog.String("value", v))
		}
	}
	if v := l.getenv(EnvData); v != "" {
		cfg.Storage.DataPath = v
	}
	if v := l.getenv(EnvBackend); v != "" {
		cfg.Storage.Backend = v
	}
}
