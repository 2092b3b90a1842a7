package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "REMINDERS_"

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

type Config struct {
	App      AppConfig      `koanf:"app"`
	Settings SettingsConfig `koanf:"settings"`
	Log      LogConfig      `koanf:"log"`
	Queue    QueueConfig    `koanf:"queue"`
	UI       UIConfig       `koanf:"ui"`
}

type AppConfig struct {
	Name    string `koanf:"name"`
	Env     string `koanf:"env"` // "production" or "development"
	Version string `koanf:"version"`
}

// SettingsConfig locates the user's persisted preferences.
type SettingsConfig struct {
	File string `koanf:"file"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type QueueConfig struct {
	Size             int `koanf:"size"`
	EnqueueTimeoutMS int `koanf:"enqueue_timeout_ms"`
}

type UIConfig struct {
	ColoredOutput bool `koanf:"colored_output"`
}

// IsDev reports whether the app runs in development mode.
func (c *Config) IsDev() bool {
	return c.App.Env != "production"
}

// EnqueueTimeout returns the queue enqueue timeout as a duration.
func (q QueueConfig) EnqueueTimeout() time.Duration {
	return time.Duration(q.EnqueueTimeoutMS) * time.Millisecond
}

// Load layers defaults, the optional YAML file at configPath and
// REMINDERS_* environment variables (REMINDERS_LOG__LEVEL → log.level).
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Settings.File = expandPath(cfg.Settings.File)

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("unknown log level: %s", c.Log.Level)
	}

	switch c.Log.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("unknown log format: %s (supported: %s, %s)",
			c.Log.Format, LogFormatConsole, LogFormatJSON)
	}

	if c.Queue.Size <= 0 {
		return fmt.Errorf("queue.size must be positive")
	}

	if c.Queue.EnqueueTimeoutMS <= 0 {
		return fmt.Errorf("queue.enqueue_timeout_ms must be positive")
	}

	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	return nil
}

// ExpandPath resolves a leading "~/" against the user's home directory.
func ExpandPath(path string) string {
	return expandPath(path)
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
