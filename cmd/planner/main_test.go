package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/resource-planner/api"
	"github.com/warp/resource-planner/store/jsonfile"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writeConfig writes a planner.yaml pointing the json backend at a scenario
// document in a temp directory.
func writeConfig(t *testing.T, scenario string) (configPath, dataPath string) {
	t.Helper()
	for _, k := range []string{"PLANNER_PORT", "PLANNER_DATA", "PLANNER_BACKEND"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	dataPath = filepath.Join(dir, "resource_data.json")
	doc, ok := api.ScenarioDocument(scenario)
	require.True(t, ok)
	require.NoError(t, jsonfile.New(dataPath, "", nil).Save(context.Background(), doc))

	configPath = filepath.Join(dir, "planner.yaml")
	yaml := fmt.Sprintf("storage:\n  backend: json\n  data_path: %s\n  settings_path: %s\nlog:\n  level: error\n",
		dataPath, filepath.Join(dir, "settings.json"))
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o644))
	return configPath, dataPath
}

func TestReport_Scenario(t *testing.T) {
	out, err := run(t, "report", "--scenario", "overlap")

	require.NoError(t, err)
	assert.Contains(t, out, "Period: [2024-01-01, 2024-01-14]")
	assert.Contains(t, out, "85.71%")
	assert.Contains(t, out, "Conflicts: 6")
	assert.Contains(t, out, "OVER BUDGET")
}

func TestReport_FromStore(t *testing.T) {
	configPath, _ := writeConfig(t, "team-cost")

	out, err := run(t, "report", "--config", configPath)

	require.NoError(t, err)
	assert.Contains(t, out, "T1")
	assert.Contains(t, out, "€1250.00")
}

func TestReport_BadFlags(t *testing.T) {
	_, err := run(t, "report", "--scenario", "overlap", "--from", "someday")
	assert.Error(t, err)

	_, err = run(t, "report", "--scenario", "missing")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "--scenario", "team-cost")
	require.NoError(t, err)
	assert.Contains(t, out, "OK: no issues found")

	out, err = run(t, "check", "--scenario", "circular")
	assert.ErrorIs(t, err, errIssuesFound)
	assert.Contains(t, out, "cycle: Core -> Eng -> Platform -> Ops -> Core")
	assert.Contains(t, out, "team in multiple departments: Core")
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	out, err := run(t, "export", "--scenario", "overlap", "-o", path)

	require.NoError(t, err)
	assert.Contains(t, out, "(2 rows)")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSnapshots_RequireSQLite(t *testing.T) {
	configPath, _ := writeConfig(t, "empty")

	_, err := run(t, "snapshots", "list", "--config", configPath)

	assert.ErrorContains(t, err, "sqlite backend")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")

	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	_, err = run(t, "config", "init", path)
	assert.Error(t, err)

	_, err = run(t, "config", "init", path, "--force")
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}
