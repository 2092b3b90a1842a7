package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"app": map[string]interface{}{
			"name":    "Reminders",
			"env":     "production",
			"version": "1.0.0",
		},
		"settings": map[string]interface{}{
			"file": "~/.reminders/settings.yaml",
		},
		"log": map[string]interface{}{
			"level":  "info",
			"format": "console",
		},
		"queue": map[string]interface{}{
			"size":               64,
			"enqueue_timeout_ms": 1000,
		},
		"ui": map[string]interface{}{
			"colored_output": true,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.reminders/config.yaml"
}
