package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewZerolog(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{"warn", false, false},
		{"", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewZerolog(&buf, tt.level, "database")

			log.Debug().Msg("debug line")
			log.Info().Msg("info line")

			assert.Equal(t, tt.debugSeen, bytes.Contains(buf.Bytes(), []byte("debug line")))
			assert.Equal(t, tt.infoSeen, bytes.Contains(buf.Bytes(), []byte("info line")))
			if tt.infoSeen {
				assert.Contains(t, buf.String(), "component=database")
				assert.NotContains(t, buf.String(), "\x1b[", "no colour codes")
			}
		})
	}
}
