package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/seatwise/extension/pkg/natives"
)

// FileName is the config file looked up in the module directory.
const FileName = "seatwise.cfg.json"

// TargetingConfig holds vehicle targeting ranges.
type TargetingConfig struct {
	UseRaycast     bool
	LookRange      float64
	DetectionRange float64
}

// EntryConfig holds enter-vehicle command parameters.
type EntryConfig struct {
	Timeout time.Duration
	Speed   float64
}

// KeyConfig holds the key bindings.
type KeyConfig struct {
	Driver        natives.Key
	Passenger     natives.Key
	PassengerMode natives.Key
}

// Settings is the immutable gameplay configuration handed to components at construction.
type Settings struct {
	Targeting   TargetingConfig
	Entry       EntryConfig
	Keys        KeyConfig
	SeatProfile string
}

// ErrInvalidSettings is wrapped by Settings.Validate failures.
var ErrInvalidSettings = errors.New("invalid settings")

// Validate rejects settings the script cannot act on: an entry timeout under
// a millisecond, a detection radius beyond the look range, and bindings where
// the driver and passenger keys collide.
func (s Settings) Validate() error {
	var errs []error
	if s.Entry.Timeout < time.Millisecond {
		errs = append(errs, fmt.Errorf("entry.timeout %s is below 1ms", s.Entry.Timeout))
	}
	if s.Targeting.DetectionRange <= 0 || s.Targeting.LookRange <= 0 {
		errs = append(errs, errors.New("targeting ranges must be positive"))
	}
	if s.Targeting.DetectionRange > s.Targeting.LookRange {
		errs = append(errs, fmt.Errorf("targeting.detectionRange %.1f exceeds lookRange %.1f",
			s.Targeting.DetectionRange, s.Targeting.LookRange))
	}
	if s.Keys.Driver == s.Keys.Passenger {
		errs = append(errs, fmt.Errorf("keys.driver and keys.passenger are both %d", s.Keys.Driver))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	return nil
}

// MemoryConfig holds in-memory/JSON journal backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite journal backend settings
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// StorageConfig selects and configures the journal storage backend
type StorageConfig struct {
	Type          string        `json:"type" mapstructure:"type"`
	FlushInterval time.Duration `json:"flushInterval" mapstructure:"flushInterval"`
	Memory        MemoryConfig  `json:"memory" mapstructure:"memory"`
	SQLite        SQLiteConfig  `json:"sqlite" mapstructure:"sqlite"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./seatwiselogs")
	viper.SetDefault("statusInterval", "5s")

	viper.SetDefault("targeting.useRaycast", true)
	viper.SetDefault("targeting.lookRange", 8.0)
	viper.SetDefault("targeting.detectionRange", 6.0)

	viper.SetDefault("entry.timeout", "5000ms")
	viper.SetDefault("entry.speed", 1.0)

	viper.SetDefault("keys.driver", int(natives.KeyF))
	viper.SetDefault("keys.passenger", int(natives.KeyG))
	viper.SetDefault("keys.passengerMode", int(natives.KeyShift))

	viper.SetDefault("seats.profile", "")

	viper.SetDefault("storage.type", "none")
	viper.SetDefault("storage.flushInterval", "5s")
	viper.SetDefault("storage.memory.outputDir", "./journals")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "./journals/seatwise.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "seatwise")

	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "seatwise")
	viper.SetDefault("influx.bucket", "seatwise_journal")

	viper.SetDefault("api.serverUrl", "")
	viper.SetDefault("api.apiKey", "")
	viper.SetDefault("api.tag", "")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "seatwise")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// Watch re-reads the config file on change and hands the rebuilt Settings to onChange.
func Watch(onChange func(Settings)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		onChange(GetSettings())
	})
	viper.WatchConfig()
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// getMillis reads a duration that may also be written as a bare number of
// milliseconds, e.g. "entry.timeout": 5000.
func getMillis(key string) time.Duration {
	switch v := viper.Get(key).(type) {
	case int:
		return time.Duration(v) * time.Millisecond
	case int64:
		return time.Duration(v) * time.Millisecond
	case float64:
		return time.Duration(v * float64(time.Millisecond))
	}
	return viper.GetDuration(key)
}

// GetSettings returns the gameplay settings built from the current config.
func GetSettings() Settings {
	return Settings{
		Targeting: TargetingConfig{
			UseRaycast:     viper.GetBool("targeting.useRaycast"),
			LookRange:      viper.GetFloat64("targeting.lookRange"),
			DetectionRange: viper.GetFloat64("targeting.detectionRange"),
		},
		Entry: EntryConfig{
			Timeout: getMillis("entry.timeout"),
			Speed:   viper.GetFloat64("entry.speed"),
		},
		Keys: KeyConfig{
			Driver:        natives.Key(viper.GetInt("keys.driver")),
			Passenger:     natives.Key(viper.GetInt("keys.passenger")),
			PassengerMode: natives.Key(viper.GetInt("keys.passengerMode")),
		},
		SeatProfile: viper.GetString("seats.profile"),
	}
}

// GetStorageConfig returns the journal storage configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:          viper.GetString("storage.type"),
		FlushInterval: viper.GetDuration("storage.flushInterval"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry configuration.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}
