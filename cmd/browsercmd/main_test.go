package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(&CLIConfig{Retries: -1})
	require.NoError(t, err)

	assert.False(t, cfg.Browser.Visible)
	assert.Equal(t, 3, cfg.Retry.Retries)
	assert.Equal(t, "normal", cfg.Logging.Verbosity)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "browsercmd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
retry:
  retries: 7
logging:
  verbosity: quiet
artifacts:
  enabled: false
`), 0o600))

	cfg, err := loadConfig(&CLIConfig{
		ConfigFile: path,
		Visible:    true,
		Retries:    0,
		OutputDir:  "out",
		Verbosity:  "debug",
	})
	require.NoError(t, err)

	assert.True(t, cfg.Browser.Visible)
	assert.Equal(t, 0, cfg.Retry.Retries)
	assert.True(t, cfg.Artifacts.Enabled)
	assert.Equal(t, "out", cfg.Artifacts.OutputDir)
	assert.Equal(t, "debug", cfg.Logging.Verbosity)
}

func TestLoadConfig_FileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "browsercmd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retry:\n  retries: 7\n"), 0o600))

	cfg, err := loadConfig(&CLIConfig{ConfigFile: path, Retries: -1})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Retry.Retries)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(&CLIConfig{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"), Retries: -1})
	assert.Error(t, err)
}

func TestRun_RequiresScript(t *testing.T) {
	err := run(context.Background(), &CLIConfig{Retries: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script is required")
}

func TestRun_RejectsInvalidScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps: [{action: fly, wait: {condition: alert}}]"), 0o600))

	err := run(context.Background(), &CLIConfig{ScriptFile: path, Retries: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load script")
}

func TestRun_RejectsInvalidConfig(t *testing.T) {
	err := run(context.Background(), &CLIConfig{Retries: -1, Verbosity: "shouty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
