// Package gormstorage implements the storage.Backend interface on any GORM
// dialect. The sqlite and postgres backends wrap it and only own the connection.
package gormstorage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/seatwise/extension/internal/database"
	"github.com/seatwise/extension/internal/model"
	"github.com/seatwise/extension/internal/model/convert"
	"github.com/seatwise/extension/pkg/core"
)

// ErrNotReady is returned when a record is written before Init succeeded.
var ErrNotReady = errors.New("database not ready")

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

// Backend implements storage.Backend with one GORM connection.
type Backend struct {
	deps Dependencies

	mu        sync.RWMutex
	dbReady   bool
	sessionID uuid.UUID
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{deps: deps}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init runs schema migration.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return ErrNotReady
	}
	if err := database.Setup(b.deps.DB, b.deps.Logger); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}

	b.mu.Lock()
	b.dbReady = true
	b.mu.Unlock()
	return nil
}

// Close releases the underlying sql.DB.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.deps.DB == nil || !b.dbReady {
		return nil
	}
	b.dbReady = false
	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

func (b *Backend) ready() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dbReady
}

// StartSession inserts the session row.
func (b *Backend) StartSession(s *core.Session) error {
	if !b.ready() {
		return ErrNotReady
	}

	row := convert.CoreToSession(*s)
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	b.mu.Lock()
	b.sessionID = s.ID
	b.mu.Unlock()

	b.deps.Logger.Info().Str("session", s.ID.String()).Msg("Session started")
	return nil
}

// EndSession stamps the session end time.
func (b *Backend) EndSession(s *core.Session) error {
	if !b.ready() {
		return ErrNotReady
	}

	end := s.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	res := b.deps.DB.Model(&model.Session{}).Where("id = ?", s.ID).Update("end_time", end)
	if res.Error != nil {
		return fmt.Errorf("failed to end session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to end session %s: %w", s.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// RecordEntryAttempt converts and inserts an entry attempt.
func (b *Backend) RecordEntryAttempt(a *core.EntryAttempt) error {
	if !b.ready() {
		return ErrNotReady
	}
	row := convert.CoreToEntryAttempt(*a)
	if row.SessionID == uuid.Nil {
		row.SessionID = b.currentSession()
	}
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert entry attempt: %w", err)
	}
	return nil
}

// RecordGuardIntervention converts and inserts a guard intervention.
func (b *Backend) RecordGuardIntervention(g *core.GuardIntervention) error {
	if !b.ready() {
		return ErrNotReady
	}
	row := convert.CoreToGuardIntervention(*g)
	if row.SessionID == uuid.Nil {
		row.SessionID = b.currentSession()
	}
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert guard intervention: %w", err)
	}
	return nil
}

func (b *Backend) currentSession() uuid.UUID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sessionID
}
