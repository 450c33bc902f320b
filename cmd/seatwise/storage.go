package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/seatwise/extension/internal/config"
	"github.com/seatwise/extension/internal/influx"
	"github.com/seatwise/extension/internal/storage"
	influxstorage "github.com/seatwise/extension/internal/storage/influx"
	"github.com/seatwise/extension/internal/storage/memory"
	pgstorage "github.com/seatwise/extension/internal/storage/postgres"
	sqlitestorage "github.com/seatwise/extension/internal/storage/sqlite"
)

// newBackend creates the journal backend for cfg.Type. A nil backend with a
// nil error means the journal is disabled. sessionID names the influx backup
// file.
func newBackend(cfg config.StorageConfig, sessionID string, log zerolog.Logger) (storage.Backend, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "none":
		return nil, nil

	case "memory":
		memCfg := cfg.Memory
		memCfg.OutputDir = resolvePath(memCfg.OutputDir)
		return memory.New(memCfg), nil

	case "sqlite":
		sqliteCfg := cfg.SQLite
		sqliteCfg.Path = resolvePath(sqliteCfg.Path)
		return sqlitestorage.New(sqliteCfg, log), nil

	case "postgres":
		return pgstorage.New(log), nil

	case "influx":
		backup := filepath.Join(resolvePath(cfg.Memory.OutputDir), fmt.Sprintf("%s_influx_backup.lp.gz", sessionID))
		return influxstorage.New(influx.ConfigFromViper(backup), log), nil

	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
