// Package sqlitestorage implements the storage.Backend interface on a local
// SQLite file. It wraps the GORM backend via composition; the only
// SQLite-specific concern is opening the file database on Init.
package sqlitestorage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/seatwise/extension/internal/config"
	"github.com/seatwise/extension/internal/database"
	gormstorage "github.com/seatwise/extension/internal/storage/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	cfg config.SQLiteConfig
	log zerolog.Logger
}

// New creates a new SQLite storage backend. The database is opened by Init.
func New(cfg config.SQLiteConfig, log zerolog.Logger) *Backend {
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{Logger: log}),
		cfg:     cfg,
		log:     log,
	}
}

// Init opens the SQLite file and initializes the embedded GORM backend.
func (b *Backend) Init() error {
	db, err := database.GetSqliteDB(b.cfg.Path, b.log)
	if err != nil {
		return fmt.Errorf("failed to open SQLite DB: %w", err)
	}
	b.Backend = gormstorage.New(gormstorage.Dependencies{DB: db, Logger: b.log})
	return b.Backend.Init()
}
