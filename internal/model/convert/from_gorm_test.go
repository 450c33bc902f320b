package convert

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/seatwise/extension/internal/model"
	"github.com/seatwise/extension/pkg/core"
	"github.com/seatwise/extension/pkg/natives"
)

func TestSessionRoundTrip(t *testing.T) {
	s := core.Session{
		ID:               uuid.New(),
		StartTime:        time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
		EndTime:          time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC),
		ExtensionVersion: "1.2.0",
	}
	assert.Equal(t, s, SessionToCore(CoreToSession(s)))

	s.EndTime = time.Time{}
	assert.Equal(t, s, SessionToCore(CoreToSession(s)))
}

func TestEntryAttemptToCore(t *testing.T) {
	a := core.EntryAttempt{
		ID:             uuid.New(),
		SessionID:      uuid.New(),
		Time:           time.Date(2026, 3, 1, 18, 5, 0, 0, time.UTC),
		Mode:           core.EntryModePassenger,
		Vehicle:        771,
		Model:          natives.Joaat("adder"),
		Seat:           4,
		Flag:           natives.EntryFlagStandard,
		TargetSource:   "raycast",
		PlayerPosition: natives.Vector3{X: 100.5, Y: -20.25, Z: 31},
		GrabSeats:      true,
	}
	assert.Equal(t, a, EntryAttemptToCore(CoreToEntryAttempt(a)))
}

func TestEntryAttemptToCore_BadDetail(t *testing.T) {
	got := EntryAttemptToCore(model.EntryAttempt{Detail: []byte("{")})
	assert.False(t, got.GrabSeats)
	assert.Equal(t, natives.Vector3{}, got.PlayerPosition)
}

func TestGuardInterventionToCore(t *testing.T) {
	for _, ls := range []natives.LockState{natives.LockStateNone, natives.LockStateUnlocked, natives.LockStateLocked} {
		g := core.GuardIntervention{
			SessionID: uuid.New(),
			Time:      time.Date(2026, 3, 1, 18, 6, 0, 0, time.UTC),
			Kind:      core.InterventionWindowBreak,
			Vehicle:   771,
			LockState: ls,
		}
		assert.Equal(t, g, GuardInterventionToCore(CoreToGuardIntervention(g)), ls.String())
	}
}
