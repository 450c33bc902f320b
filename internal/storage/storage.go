package storage

import "github.com/seatwise/extension/pkg/core"

// Backend is the interface all journal storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management
	StartSession(s *core.Session) error
	EndSession(s *core.Session) error

	// Record keeping
	RecordEntryAttempt(a *core.EntryAttempt) error
	RecordGuardIntervention(g *core.GuardIntervention) error
}

// Exporter is an optional interface for storage backends that write the
// session to a file when it ends.
type Exporter interface {
	ExportedFilePath() string
}
