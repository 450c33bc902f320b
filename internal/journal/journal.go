// Package journal keeps a record of every entry command and tick-guard
// intervention of a session. Records are queued in memory and written to the
// storage backend off the host thread.
package journal

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seatwise/extension/internal/queue"
	"github.com/seatwise/extension/internal/session"
	"github.com/seatwise/extension/internal/storage"
	"github.com/seatwise/extension/pkg/core"
)

// MaxPending bounds each record queue while the backend is unavailable.
const MaxPending = 10000

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("journal closed")

// Journal implements entry.Recorder and tickguard.Recorder.
type Journal struct {
	backend  storage.Backend
	sess     *session.Context
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time

	attempts      *queue.Queue[core.EntryAttempt]
	interventions *queue.Queue[core.GuardIntervention]

	flushMu   sync.Mutex
	statsMu   sync.Mutex
	lastFlush flushResult
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	started   bool
	closed    bool
}

// New creates a Journal. A non-positive interval disables the background
// flush; records are then only written by Flush and Close.
func New(backend storage.Backend, sess *session.Context, interval time.Duration, log *slog.Logger) *Journal {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Journal{
		backend:       backend,
		sess:          sess,
		interval:      interval,
		log:           log,
		now:           time.Now,
		attempts:      queue.New[core.EntryAttempt](MaxPending),
		interventions: queue.New[core.GuardIntervention](MaxPending),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start initializes the backend, opens the session and starts the flush loop.
func (j *Journal) Start() error {
	if j.closed {
		return ErrClosed
	}
	if j.started {
		return nil
	}
	if err := j.backend.Init(); err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	s := j.sess.Get()
	if err := j.backend.StartSession(&s); err != nil {
		return errors.Join(fmt.Errorf("failed to start session: %w", err), j.backend.Close())
	}
	j.started = true

	if j.interval > 0 {
		go j.flushLoop()
	} else {
		close(j.done)
	}
	j.log.Info("journal started", "interval", j.interval)
	return nil
}

// RecordEntryAttempt queues an entry attempt, stamping id, session and time.
func (j *Journal) RecordEntryAttempt(a *core.EntryAttempt) {
	rec := *a
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.SessionID == uuid.Nil {
		rec.SessionID = j.sess.ID()
	}
	if rec.Time.IsZero() {
		rec.Time = j.now()
	}
	if dropped := j.attempts.Push(rec); dropped > 0 {
		j.log.Debug("journal full, dropped entry attempts", "count", dropped)
	}
}

// RecordGuardIntervention queues a guard intervention, stamping session and time.
func (j *Journal) RecordGuardIntervention(g *core.GuardIntervention) {
	rec := *g
	if rec.SessionID == uuid.Nil {
		rec.SessionID = j.sess.ID()
	}
	if rec.Time.IsZero() {
		rec.Time = j.now()
	}
	if dropped := j.interventions.Push(rec); dropped > 0 {
		j.log.Debug("journal full, dropped guard interventions", "count", dropped)
	}
}

// Stats is a snapshot of the journal queues and the last flush.
type Stats struct {
	PendingAttempts      int
	PendingInterventions int
	Dropped              uint64
	LastFlush            time.Time
	LastFlushDuration    time.Duration
	LastFlushError       error
}

type flushResult struct {
	at       time.Time
	duration time.Duration
	err      error
}

// Stats returns the current queue lengths, total dropped records and the
// outcome of the last flush.
func (j *Journal) Stats() Stats {
	j.statsMu.Lock()
	last := j.lastFlush
	j.statsMu.Unlock()

	return Stats{
		PendingAttempts:      j.attempts.Len(),
		PendingInterventions: j.interventions.Len(),
		Dropped:              j.attempts.Dropped() + j.interventions.Dropped(),
		LastFlush:            last.at,
		LastFlushDuration:    last.duration,
		LastFlushError:       last.err,
	}
}

// Pending returns the number of queued, unwritten records.
func (j *Journal) Pending() int {
	return j.attempts.Len() + j.interventions.Len()
}

// Flush writes all queued records to the backend. Records that fail to write
// are put back at the head of their queue.
func (j *Journal) Flush() error {
	j.flushMu.Lock()
	defer j.flushMu.Unlock()

	start := time.Now()
	err := errors.Join(
		drain(j.attempts, j.backend.RecordEntryAttempt, "entry attempt"),
		drain(j.interventions, j.backend.RecordGuardIntervention, "guard intervention"),
	)

	j.statsMu.Lock()
	j.lastFlush = flushResult{at: start, duration: time.Since(start), err: err}
	j.statsMu.Unlock()
	return err
}

func drain[T any](q *queue.Queue[T], write func(*T) error, name string) error {
	items := q.GetAndEmpty()
	for i := range items {
		if err := write(&items[i]); err != nil {
			q.Requeue(items[i:]...)
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

func (j *Journal) flushLoop() {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	var lastDropped uint64
	for {
		select {
		case <-j.stop:
			return
		case <-ticker.C:
			start := time.Now()
			pending := j.Pending()
			if err := j.Flush(); err != nil {
				j.log.Error("journal flush failed", "error", err, "pending", j.Pending())
			} else if pending > 0 {
				j.log.Debug("journal flushed", "records", pending, "duration", time.Since(start))
			}

			if dropped := j.attempts.Dropped() + j.interventions.Dropped(); dropped > lastDropped {
				j.log.Warn("journal dropped records", "total", dropped)
				lastDropped = dropped
			}
		}
	}
}

// Close stops the flush loop, writes what is left, ends the session and
// closes the backend.
func (j *Journal) Close() error {
	var err error
	j.closeOnce.Do(func() {
		j.closed = true
		if !j.started {
			return
		}
		close(j.stop)
		<-j.done

		s := j.sess.End()
		err = errors.Join(
			j.Flush(),
			j.backend.EndSession(&s),
			j.backend.Close(),
		)
		j.log.Info("journal closed", "session", s.ID.String())
	})
	return err
}
