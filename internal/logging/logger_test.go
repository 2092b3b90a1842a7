package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/reminders/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "info", Format: config.LogFormatJSON}, "reminders", &buf)

	log.Debug().Msg("hidden")
	log.Error().Str("kind", "write_error").Msg("persist failed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "reminders", line["service"])
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "write_error", line["kind"])
	assert.Equal(t, "persist failed", line["message"])
	assert.Contains(t, line, "time")
}

func TestNew_ConsoleAndBadLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "nonsense", Format: config.LogFormatConsole}, "reminders", &buf)

	log.Debug().Msg("hidden")
	log.Info().Msg("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "service=reminders")
}
