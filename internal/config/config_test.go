package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Reminders", cfg.App.Name)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, LogFormatConsole, cfg.Log.Format)
	assert.Equal(t, 64, cfg.Queue.Size)
	assert.Equal(t, time.Second, cfg.Queue.EnqueueTimeout())
	assert.True(t, cfg.UI.ColoredOutput)
	assert.True(t, filepath.IsAbs(cfg.Settings.File) || cfg.Settings.File == "~/.reminders/settings.yaml")
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  format: json
queue:
  size: 8
settings:
  file: /srv/settings.yaml
`), 0o600))
	t.Setenv("REMINDERS_LOG__LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, LogFormatJSON, cfg.Log.Format)
	assert.Equal(t, 8, cfg.Queue.Size)
	assert.Equal(t, "/srv/settings.yaml", cfg.Settings.File)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Reminders", cfg.App.Name)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"zero queue", func(c *Config) { c.Queue.Size = 0 }},
		{"zero timeout", func(c *Config) { c.Queue.EnqueueTimeoutMS = 0 }},
		{"no name", func(c *Config) { c.App.Name = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x.yaml"), ExpandPath("~/x.yaml"))
	assert.Equal(t, "/abs/x.yaml", ExpandPath("/abs/x.yaml"))
	assert.Equal(t, "", ExpandPath(""))
}
