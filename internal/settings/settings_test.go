package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.yaml"), zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "", s.SourcePath())
	assert.True(t, s.KeepInTray())
}

func TestSetters_PersistAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	s, err := Load(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.SetSourcePath("/tmp/r.json"))
	require.NoError(t, s.SetKeepInTray(false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "source_path: /tmp/r.json")
	assert.Contains(t, string(data), "keep_in_tray: false")

	again, err := Load(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Values{SourcePath: "/tmp/r.json", KeepInTray: false}, again.Values())
}

func TestToggleKeepInTray(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.yaml"), zerolog.Nop())
	require.NoError(t, err)

	v, err := s.ToggleKeepInTray()
	require.NoError(t, err)
	assert.False(t, v)
	assert.False(t, s.KeepInTray())

	v, err = s.ToggleKeepInTray()
	require.NoError(t, err)
	assert.True(t, v)
}

func TestLoad_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source_path: /data/reminders.json\nkeep_in_tray: false\n"), 0o600))

	s, err := Load(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "/data/reminders.json", s.SourcePath())
	assert.False(t, s.KeepInTray())
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source_path: [unclosed\n"), 0o600))

	_, err := Load(path, zerolog.Nop())
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("REMINDERS_SETTINGS_KEEP_IN_TRAY", "false")
	t.Setenv("REMINDERS_SETTINGS_SOURCE_PATH", "/env/r.json")

	path := filepath.Join(t.TempDir(), "settings.yaml")
	s, err := Load(path, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, s.KeepInTray())
	assert.Equal(t, "/env/r.json", s.SourcePath())

	// env values are not written back to the file
	require.NoError(t, s.SetKeepInTray(true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "/env/r.json")
}

func TestInMemoryOnly(t *testing.T) {
	s, err := Load("", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.SetSourcePath("/x.json"))
	assert.Equal(t, "/x.json", s.SourcePath())
	assert.Error(t, s.Watch(func(Values) {}))
}
