package gormstorage

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seatwise/extension/internal/model"
	"github.com/seatwise/extension/internal/model/convert"
	"github.com/seatwise/extension/pkg/core"
)

// ErrSessionNotFound is returned when a journal is requested for an unknown session.
var ErrSessionNotFound = errors.New("session not found")

// Journal is a stored session with its records in time order.
type Journal struct {
	Session       core.Session
	Attempts      []core.EntryAttempt
	Interventions []core.GuardIntervention
}

// Sessions returns the most recent sessions, newest first. limit <= 0 returns all.
func (b *Backend) Sessions(limit int) ([]core.Session, error) {
	if !b.ready() {
		return nil, ErrNotReady
	}

	q := b.deps.DB.Order("start_time DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []model.Session
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := make([]core.Session, len(rows))
	for i, r := range rows {
		out[i] = convert.SessionToCore(r)
	}
	return out, nil
}

// LoadJournal reads one session and all of its records.
func (b *Backend) LoadJournal(id uuid.UUID) (*Journal, error) {
	if !b.ready() {
		return nil, ErrNotReady
	}

	var s model.Session
	err := b.deps.DB.Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var attempts []model.EntryAttempt
	if err := b.deps.DB.Where("session_id = ?", id).Order("time").Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to load entry attempts: %w", err)
	}
	var interventions []model.GuardIntervention
	if err := b.deps.DB.Where("session_id = ?", id).Order("time").Find(&interventions).Error; err != nil {
		return nil, fmt.Errorf("failed to load guard interventions: %w", err)
	}

	j := &Journal{
		Session:       convert.SessionToCore(s),
		Attempts:      make([]core.EntryAttempt, len(attempts)),
		Interventions: make([]core.GuardIntervention, len(interventions)),
	}
	for i, a := range attempts {
		j.Attempts[i] = convert.EntryAttemptToCore(a)
	}
	for i, g := range interventions {
		j.Interventions[i] = convert.GuardInterventionToCore(g)
	}
	return j, nil
}
