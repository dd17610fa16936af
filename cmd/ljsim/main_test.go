package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ljsim/internal/dynamo"
)

func paramCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	configFile, preset, fromRun = "", "", ""
	cmd := &cobra.Command{Use: "test"}
	addParamFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig(paramCommand(t))
	require.NoError(t, err)
	assert.Equal(t, 108, cfg.Particles)
	assert.Equal(t, 0.8, cfg.Density)
}

func TestResolveConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("particles: 256\ntemperature: 0.9\ndensity: 0.7\n"), 0o644))

	cmd := paramCommand(t, "--preset", "argon/gas", "--config", path, "--temperature", "1.5")
	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Particles, "config overrides preset")
	assert.Equal(t, 0.7, cfg.Density)
	assert.Equal(t, 1.5, cfg.Temperature, "flag overrides config")
}

func TestResolveConfigPreset(t *testing.T) {
	cfg, err := resolveConfig(paramCommand(t, "--preset", "solid", "-n", "32"))
	require.NoError(t, err)
	assert.Equal(t, 1.2, cfg.Density)
	assert.Equal(t, 32, cfg.Particles)

	_, err = resolveConfig(paramCommand(t, "--preset", "argon/plasma"))
	assert.Error(t, err)
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := logObserver{log: newLogger(&buf, log.InfoLevel)}

	obs.OnEvent(dynamo.Event{Stage: dynamo.StageInitialize, Total: 1000, Message: "building lattice"})
	obs.OnEvent(dynamo.Event{Stage: dynamo.StageEquilibrate, Step: 2, Lambda: 1.004})
	obs.OnEvent(dynamo.Event{Stage: dynamo.StageProduce, Step: 100, Total: 1000})
	obs.OnEvent(dynamo.Event{Stage: dynamo.StageComplete, Total: 1000})

	out := buf.String()
	assert.Contains(t, out, "initialize")
	assert.Contains(t, out, "lambda=1.004")
	assert.NotContains(t, out, "produce", "progress is debug only")
	assert.Contains(t, out, "complete")
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, sortedKeys(map[string]float64{"c": 1, "a": 2, "b": 3}))
}
