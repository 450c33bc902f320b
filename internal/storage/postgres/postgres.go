// Package postgres implements the storage.Backend interface on PostgreSQL
// with PostGIS. It wraps the GORM backend and owns the connection.
package postgres

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/seatwise/extension/internal/database"
	gormstorage "github.com/seatwise/extension/internal/storage/gorm"
)

// Backend wraps the GORM backend for Postgres.
type Backend struct {
	*gormstorage.Backend
	log     zerolog.Logger
	connect func(zerolog.Logger) (*gorm.DB, error)
}

// New creates a new Postgres storage backend. The connection is made by Init
// from the db.* config keys.
func New(log zerolog.Logger) *Backend {
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{Logger: log}),
		log:     log,
		connect: database.GetPostgresDB,
	}
}

// Init connects to Postgres and initializes the embedded GORM backend.
func (b *Backend) Init() error {
	db, err := b.connect(b.log)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	b.Backend = gormstorage.New(gormstorage.Dependencies{DB: db, Logger: b.log})
	return b.Backend.Init()
}
