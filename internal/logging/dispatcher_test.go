package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwise/extension/internal/dispatcher"
)

var _ dispatcher.Logger = (*DispatcherLogger)(nil)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestDispatcherLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		log   func(dl *DispatcherLogger)
	}{
		{"DEBUG", func(dl *DispatcherLogger) { dl.Debug("msg", "command", ":TICK:") }},
		{"INFO", func(dl *DispatcherLogger) { dl.Info("msg", "command", ":TICK:") }},
		{"ERROR", func(dl *DispatcherLogger) { dl.Error("msg", "command", ":TICK:") }},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			tt.log(NewDispatcherLogger(logger))

			entry := decodeLine(t, &buf)
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "msg", entry["msg"])
			assert.Equal(t, ":TICK:", entry["command"])
		})
	}
}

func TestDispatcherLogger_NumericValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	NewDispatcherLogger(logger).Info("keys", "key", 70)

	entry := decodeLine(t, &buf)
	assert.Equal(t, float64(70), entry["key"]) // JSON numbers are float64
}
