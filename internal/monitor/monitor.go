// Package monitor periodically writes the journal status to a file next to
// the module, so a stalled storage backend is visible without reading logs.
package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/seatwise/extension/internal/journal"
	"github.com/seatwise/extension/internal/session"
)

// StatsSource reports journal statistics.
type StatsSource interface {
	Stats() journal.Stats
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Journal    StatsSource
	Session    *session.Context
	Storage    string
	StatusPath string
	Interval   time.Duration
	Logger     *slog.Logger
}

// Status is the content of the status file.
type Status struct {
	Time                 time.Time  `json:"time"`
	Session              string     `json:"session"`
	Storage              string     `json:"storage"`
	PendingAttempts      int        `json:"pendingAttempts"`
	PendingInterventions int        `json:"pendingInterventions"`
	Dropped              uint64     `json:"dropped"`
	LastFlush            *time.Time `json:"lastFlush,omitempty"`
	LastFlushMs          float32    `json:"lastFlushMs"`
	LastFlushError       string     `json:"lastFlushError,omitempty"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	log       *slog.Logger
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{deps: deps, log: log}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus returns the current journal status
func (s *Service) GetStatus() Status {
	st := s.deps.Journal.Stats()
	status := Status{
		Time:                 time.Now().UTC(),
		Session:              s.deps.Session.ID().String(),
		Storage:              s.deps.Storage,
		PendingAttempts:      st.PendingAttempts,
		PendingInterventions: st.PendingInterventions,
		Dropped:              st.Dropped,
		LastFlushMs:          float32(st.LastFlushDuration.Microseconds()) / 1000,
	}
	if !st.LastFlush.IsZero() {
		t := st.LastFlush.UTC()
		status.LastFlush = &t
	}
	if st.LastFlushError != nil {
		status.LastFlushError = st.LastFlushError.Error()
	}
	return status
}

// WriteStatus replaces the status file with the current status.
func (s *Service) WriteStatus() error {
	data, err := json.MarshalIndent(s.GetStatus(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}
	tmp := s.deps.StatusPath + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write status file: %w", err)
	}
	if err := os.Rename(tmp, s.deps.StatusPath); err != nil {
		return fmt.Errorf("failed to replace status file: %w", err)
	}
	return nil
}

// Start starts the status monitor goroutine. It does nothing when the
// interval is not positive or the monitor is already running.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning || s.deps.Interval <= 0 {
		return
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})

	go s.run(s.stopChan, s.doneChan)
}

func (s *Service) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	s.log.Debug("Starting status monitor", "path", s.deps.StatusPath, "interval", s.deps.Interval)

	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()

	failing := false
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			err := s.WriteStatus()
			if err != nil && !failing {
				s.log.Error("Error writing status file", "error", err)
			}
			failing = err != nil
		}
	}
}

// Stop stops the status monitor and writes a final status.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	done := s.doneChan
	s.mu.Unlock()

	<-done
	if err := s.WriteStatus(); err != nil {
		s.log.Error("Error writing final status file", "error", err)
	}
}
