package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "data", cfg.Paths.DataDir)
	assert.False(t, cfg.Loader.AllowPartial)
}

func TestLoadFrom_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
logging:
  level: debug
loader:
  allow_partial: true
paths:
  data_dir: /srv/ecdash/data
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := LoadFrom(configFile)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Loader.AllowPartial)
	assert.Equal(t, "/srv/ecdash/data", cfg.Paths.DataDir)
	// Unset fields still fall back to defaults.
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("server:\n  port: 9090\n"), 0644))

	t.Setenv("ECDASH_SERVER_PORT", "7070")

	cfg, err := LoadFrom(configFile)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadFrom_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "invalid log level",
			content: "logging:\n  level: loud\n",
		},
		{
			name:    "port out of range",
			content: "server:\n  port: 99999\n",
		},
		{
			name:    "malformed yaml",
			content: "server: [not a map",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configFile, []byte(tt.content), 0644))

			_, err := LoadFrom(configFile)
			assert.Error(t, err)
		})
	}
}

func TestNewPaths(t *testing.T) {
	base := t.TempDir()
	paths, err := NewPaths(base, PathsConfig{
		DataDir:    "data",
		ReportsDir: "/absolute/reports",
		LogsDir:    "logs",
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, "/absolute/reports", paths.ReportsDir)
	assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
}

func TestEnsureDirectories_SkipsDataDir(t *testing.T) {
	base := t.TempDir()
	paths, err := NewPaths(base, PathsConfig{
		DataDir:    "data",
		ReportsDir: "reports",
		LogsDir:    "logs",
	})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	assert.DirExists(t, paths.ReportsDir)
	assert.DirExists(t, paths.LogsDir)
	assert.NoDirExists(t, paths.DataDir)
}
