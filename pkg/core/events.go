// pkg/core/events.go
package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/seatwise/extension/pkg/natives"
)

// EntryMode is the kind of entry the player requested.
type EntryMode string

const (
	EntryModeDriver    EntryMode = "driver"
	EntryModePassenger EntryMode = "passenger"
)

// EntryAttempt is an enter-vehicle command issued to the host.
type EntryAttempt struct {
	ID             uuid.UUID
	SessionID      uuid.UUID
	Time           time.Time
	Mode           EntryMode
	Vehicle        natives.EntityID
	Model          natives.ModelHash
	Seat           natives.Seat
	Flag           natives.EntryFlag
	TargetSource   string
	PlayerPosition natives.Vector3
	GrabSeats      bool
}

// InterventionKind names the tick-guard action that cancelled a player task.
type InterventionKind string

const (
	InterventionMovementCancel InterventionKind = "movement_cancel"
	InterventionWindowBreak    InterventionKind = "window_break"
)

// GuardIntervention is a task cancellation performed by the tick guard.
type GuardIntervention struct {
	SessionID uuid.UUID
	Time      time.Time
	Kind      InterventionKind
	Vehicle   natives.EntityID
	LockState natives.LockState
}
