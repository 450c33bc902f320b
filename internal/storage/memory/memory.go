// internal/storage/memory/memory.go
package memory

import (
	"errors"
	"sync"

	"github.com/seatwise/extension/internal/config"
	"github.com/seatwise/extension/pkg/core"
)

// ErrNoSession is returned when records arrive before StartSession.
var ErrNoSession = errors.New("no session started")

// Backend keeps the session journal in memory and exports it to JSON when the session ends
type Backend struct {
	cfg     config.MemoryConfig
	session *core.Session

	attempts      []core.EntryAttempt
	interventions []core.GuardIntervention

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartSession begins a new journal, discarding records of any previous one
func (b *Backend) StartSession(s *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cp := *s
	b.session = &cp
	b.attempts = nil
	b.interventions = nil
	return nil
}

// EndSession finalizes and exports the journal
func (b *Backend) EndSession(s *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return ErrNoSession
	}
	b.session.EndTime = s.EndTime
	if b.cfg.OutputDir == "" {
		return nil
	}
	return b.exportJSON()
}

// RecordEntryAttempt stores an entry attempt
func (b *Backend) RecordEntryAttempt(a *core.EntryAttempt) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return ErrNoSession
	}
	b.attempts = append(b.attempts, *a)
	return nil
}

// RecordGuardIntervention stores a guard intervention
func (b *Backend) RecordGuardIntervention(g *core.GuardIntervention) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return ErrNoSession
	}
	b.interventions = append(b.interventions, *g)
	return nil
}

// EntryAttempts returns a copy of the recorded entry attempts
func (b *Backend) EntryAttempts() []core.EntryAttempt {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.EntryAttempt(nil), b.attempts...)
}

// GuardInterventions returns a copy of the recorded guard interventions
func (b *Backend) GuardInterventions() []core.GuardIntervention {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.GuardIntervention(nil), b.interventions...)
}

// ExportedFilePath returns the path of the last export, or "" if none was written
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
