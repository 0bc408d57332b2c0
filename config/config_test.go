package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendJSON, cfg.Storage.Backend)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }},
		{"json without path", func(c *Config) { c.Storage.DataPath = "" }},
		{"sqlite without path", func(c *Config) { c.Storage.Backend = BackendSQLite; c.Storage.SQLitePath = "" }},
		{"zero refresh", func(c *Config) { c.Report.RefreshInterval = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoader_Precedence(t *testing.T) {
	// GIVEN: A config file and environment overrides
	path := filepath.Join(t.TempDir(), "planner.yaml")
	yaml := `
server:
  port: 9000
storage:
  backend: sqlite
  sqlite_path: /tmp/plans.db
report:
  enabled: true
  refresh_interval: 30s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	env := map[string]string{EnvPort: "9100", EnvData: "/data/plan.json"}
	loader := NewLoader(nil)
	loader.getenv = func(k string) string { return env[k] }

	// WHEN: Loading
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	// THEN: Env beats file, file beats defaults
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "/data/plan.json", cfg.Storage.DataPath)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/plans.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 30*time.Second, cfg.Report.RefreshInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DefaultConfig().Server.AllowedOrigins, cfg.Server.AllowedOrigins)
}

func TestLoader_Errors(t *testing.T) {
	loader := NewLoader(nil)
	loader.getenv = func(string) string { return "" }

	_, err := loader.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	loader.getenv = func(k string) string {
		if k == EnvBackend {
			return "carrier-pigeon"
		}
		return ""
	}
	_, err = loader.Load("")
	assert.Error(t, err)
}

func TestLoader_InvalidPortEnvIgnored(t *testing.T) {
	loader := NewLoader(nil)
	loader.getenv = func(k string) string {
		if k == EnvPort {
			return "eighty"
		}
		return ""
	}

	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "planner.yaml")
	cfg := DefaultConfig()
	cfg.Watch.Enabled = true
	cfg.Storage.Backend = BackendMemory

	require.NoError(t, cfg.SaveToFile(path))
	loaded, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, loaded)
}

func TestConfig_MergeKeepsUnsetFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Merge(&Config{Log: LogConfig{Format: "json"}})

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Report.Enabled)

	cfg.Merge(nil)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, NewLogger(LogConfig{Level: "debug", Format: "json"}))
	assert.NotNil(t, NewLogger(LogConfig{Level: "nonsense"}))
}
