// Package settings holds the user's persisted preferences: the reminders
// data source path and whether the app keeps a tray icon.
//
// Values are layered defaults → settings file → REMINDERS_SETTINGS_* env.
// Setters write the file layer back to disk immediately.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

const (
	KeySourcePath = "source_path"
	KeyKeepInTray = "keep_in_tray"

	envPrefix = "REMINDERS_SETTINGS_"
)

// Values is a point-in-time copy of the settings.
type Values struct {
	SourcePath string `koanf:"source_path" json:"source_path"`
	KeepInTray bool   `koanf:"keep_in_tray" json:"keep_in_tray"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		KeySourcePath: "",
		KeyKeepInTray: true,
	}
}

// Settings is safe for concurrent use.
type Settings struct {
	mu     sync.RWMutex
	path   string
	stored *koanf.Koanf // file layer plus changes made through setters
	values Values

	watcher *file.File
	logger  zerolog.Logger
}

// Load reads settings from path. A missing file is not an error; it is
// created on the first change. An empty path keeps settings in memory only.
func Load(path string, logger zerolog.Logger) (*Settings, error) {
	s := &Settings{
		path:   path,
		logger: logger.With().Str("component", "settings").Logger(),
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the settings file path.
func (s *Settings) Path() string { return s.path }

// Values returns the current settings.
func (s *Settings) Values() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values
}

// SourcePath returns the reminders data source path, empty if unset.
func (s *Settings) SourcePath() string { return s.Values().SourcePath }

// KeepInTray reports whether a tray icon should be created at launch.
func (s *Settings) KeepInTray() bool { return s.Values().KeepInTray }

// SetSourcePath stores and persists the data source path.
func (s *Settings) SetSourcePath(path string) error {
	return s.set(KeySourcePath, path)
}

// SetKeepInTray stores and persists the keep-in-tray flag.
func (s *Settings) SetKeepInTray(keep bool) error {
	return s.set(KeyKeepInTray, keep)
}

// ToggleKeepInTray flips the keep-in-tray flag and returns the new value.
func (s *Settings) ToggleKeepInTray() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := !s.values.KeepInTray
	if err := s.setLocked(KeyKeepInTray, next); err != nil {
		return s.values.KeepInTray, err
	}
	return next, nil
}

// Watch calls onChange with fresh values whenever the settings file changes
// on disk. Writes made through the setters trigger it too.
func (s *Settings) Watch(onChange func(Values)) error {
	if s.path == "" {
		return fmt.Errorf("settings are not backed by a file")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		return fmt.Errorf("settings are already watched")
	}

	fp := file.Provider(s.path)
	err := fp.Watch(func(event interface{}, err error) {
		if err != nil {
			s.logger.Error().Err(err).Msg("settings watch error")
			return
		}
		if err := s.reload(); err != nil {
			s.logger.Error().Err(err).Str("path", s.path).Msg("failed to reload settings")
			return
		}
		s.logger.Debug().Str("path", s.path).Msg("settings reloaded")
		onChange(s.Values())
	})
	if err != nil {
		return fmt.Errorf("failed to watch settings file: %w", err)
	}
	s.watcher = fp
	return nil
}

// Close stops watching the settings file.
func (s *Settings) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Unwatch()
	s.watcher = nil
	return err
}

func (s *Settings) set(key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(key, value)
}

func (s *Settings) setLocked(key string, value interface{}) error {
	if err := s.stored.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if err := s.rebuildLocked(); err != nil {
		return err
	}
	return s.saveLocked()
}

func (s *Settings) saveLocked() error {
	if s.path == "" {
		return nil
	}

	data, err := s.stored.Marshal(yaml.Parser())
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func (s *Settings) reload() error {
	stored := koanf.New(".")
	if s.path != "" {
		if _, err := os.Stat(s.path); err == nil {
			if err := stored.Load(file.Provider(s.path), yaml.Parser()); err != nil {
				return fmt.Errorf("failed to load settings file: %w", err)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = stored
	return s.rebuildLocked()
}

func (s *Settings) rebuildLocked() error {
	merged := koanf.New(".")
	if err := merged.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := merged.Load(confmap.Provider(s.stored.All(), "."), nil); err != nil {
		return fmt.Errorf("failed to merge settings: %w", err)
	}
	if err := merged.Load(env.Provider(envPrefix, ".", func(key string) string {
		return strings.ToLower(strings.TrimPrefix(key, envPrefix))
	}), nil); err != nil {
		return fmt.Errorf("failed to load env settings: %w", err)
	}

	var v Values
	v.SourcePath = merged.String(KeySourcePath)
	v.KeepInTray = merged.Bool(KeyKeepInTray)

	s.values = v
	return nil
}
