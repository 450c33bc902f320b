package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwise/extension/pkg/natives"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"targeting": { "lookRange": 12.5 },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 12.5, viper.GetFloat64("targeting.lookRange"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./seatwiselogs", viper.GetString("logsDir"))
	assert.Equal(t, "none", viper.GetString("storage.type"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, "seatwise", viper.GetString("db.database"))
	assert.Equal(t, "seatwise_journal", viper.GetString("influx.bucket"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetDuration(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testDuration", "1500ms")
	assert.Equal(t, 1500*time.Millisecond, GetDuration("testDuration"))
}

func TestGetSettings_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	s := GetSettings()
	assert.True(t, s.Targeting.UseRaycast)
	assert.Equal(t, 8.0, s.Targeting.LookRange)
	assert.Equal(t, 6.0, s.Targeting.DetectionRange)
	assert.Equal(t, 5000*time.Millisecond, s.Entry.Timeout)
	assert.Equal(t, 1.0, s.Entry.Speed)
	assert.Equal(t, natives.KeyF, s.Keys.Driver)
	assert.Equal(t, natives.KeyG, s.Keys.Passenger)
	assert.Equal(t, natives.KeyShift, s.Keys.PassengerMode)
	assert.Equal(t, "", s.SeatProfile)
}

func TestGetSettings_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"targeting": { "useRaycast": false, "lookRange": 10, "detectionRange": 4 },
		"entry": { "timeout": "2s", "speed": 2.0 },
		"keys": { "driver": 69, "passenger": 81, "passengerMode": 17 },
		"seats": { "profile": "seats.yaml" }
	}`)))

	s := GetSettings()
	assert.False(t, s.Targeting.UseRaycast)
	assert.Equal(t, 10.0, s.Targeting.LookRange)
	assert.Equal(t, 4.0, s.Targeting.DetectionRange)
	assert.Equal(t, 2*time.Second, s.Entry.Timeout)
	assert.Equal(t, 2.0, s.Entry.Speed)
	assert.Equal(t, natives.Key(69), s.Keys.Driver)
	assert.Equal(t, natives.Key(81), s.Keys.Passenger)
	assert.Equal(t, natives.Key(17), s.Keys.PassengerMode)
	assert.Equal(t, "seats.yaml", s.SeatProfile)
}

func TestGetSettings_TimeoutAsMilliseconds(t *testing.T) {
	tests := []struct {
		name string
		body string
		want time.Duration
	}{
		{"integer", `{"entry": {"timeout": 5000}}`, 5000 * time.Millisecond},
		{"fraction", `{"entry": {"timeout": 2500.5}}`, 2500*time.Millisecond + 500*time.Microsecond},
		{"duration string", `{"entry": {"timeout": "3s"}}`, 3 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(viper.Reset)
			require.NoError(t, Load(writeConfig(t, tt.body)))

			s := GetSettings()
			assert.Equal(t, tt.want, s.Entry.Timeout)
			assert.NoError(t, s.Validate())
		})
	}
}

func TestSettings_Validate(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))
	require.NoError(t, GetSettings().Validate())

	tests := []struct {
		name   string
		mutate func(*Settings)
		want   string
	}{
		{"sub-millisecond timeout", func(s *Settings) { s.Entry.Timeout = 5000 }, "entry.timeout"},
		{"detection beyond look range", func(s *Settings) { s.Targeting.DetectionRange = 9 }, "exceeds lookRange"},
		{"zero range", func(s *Settings) { s.Targeting.LookRange, s.Targeting.DetectionRange = 0, 0 }, "positive"},
		{"same keys", func(s *Settings) { s.Keys.Passenger = s.Keys.Driver }, "keys.driver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := GetSettings()
			tt.mutate(&s)

			err := s.Validate()
			require.ErrorIs(t, err, ErrInvalidSettings)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGetStorageConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetStorageConfig()
	assert.Equal(t, "none", cfg.Type)
	assert.Equal(t, 5*time.Second, cfg.FlushInterval)
	assert.Equal(t, "./journals", cfg.Memory.OutputDir)
	assert.Equal(t, true, cfg.Memory.CompressOutput)
	assert.Equal(t, "./journals/seatwise.db", cfg.SQLite.Path)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"storage": {
			"type": "sqlite",
			"flushInterval": "1m",
			"memory": { "outputDir": "/tmp/out", "compressOutput": false },
			"sqlite": { "path": "/tmp/j.db" }
		}
	}`)))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, time.Minute, sc.FlushInterval)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.Equal(t, false, sc.Memory.CompressOutput)
	assert.Equal(t, "/tmp/j.db", sc.SQLite.Path)
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetOTelConfig()
	assert.Equal(t, false, cfg.Enabled)
	assert.Equal(t, "seatwise", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "", cfg.Endpoint)
	assert.Equal(t, true, cfg.Insecure)
}
