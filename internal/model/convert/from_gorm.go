package convert

import (
	"encoding/json"

	"github.com/seatwise/extension/internal/geo"
	"github.com/seatwise/extension/internal/model"
	"github.com/seatwise/extension/pkg/core"
	"github.com/seatwise/extension/pkg/natives"
)

// SessionToCore converts a stored session back to a core.Session
func SessionToCore(m model.Session) core.Session {
	s := core.Session{
		ID:               m.ID,
		StartTime:        m.StartTime,
		ExtensionVersion: m.ExtensionVersion,
		ExtensionBuild:   m.ExtensionBuild,
	}
	if m.EndTime != nil {
		s.EndTime = *m.EndTime
	}
	return s
}

// EntryAttemptToCore converts a stored entry attempt back to a core.EntryAttempt.
// A malformed detail column leaves GrabSeats false.
func EntryAttemptToCore(m model.EntryAttempt) core.EntryAttempt {
	var detail entryDetail
	_ = json.Unmarshal(m.Detail, &detail)
	return core.EntryAttempt{
		ID:             m.ID,
		SessionID:      m.SessionID,
		Time:           m.Time,
		Mode:           core.EntryMode(m.Mode),
		Vehicle:        natives.EntityID(m.VehicleID),
		Model:          natives.ModelHash(uint32(m.Model)),
		Seat:           natives.Seat(m.Seat),
		Flag:           natives.EntryFlag(m.Flag),
		TargetSource:   m.TargetSource,
		PlayerPosition: geo.VectorFromPoint(m.Position, float64(m.ElevationASL)),
		GrabSeats:      detail.GrabSeats,
	}
}

// GuardInterventionToCore converts a stored intervention back to a core.GuardIntervention
func GuardInterventionToCore(m model.GuardIntervention) core.GuardIntervention {
	return core.GuardIntervention{
		SessionID: m.SessionID,
		Time:      m.Time,
		Kind:      core.InterventionKind(m.Kind),
		Vehicle:   natives.EntityID(m.VehicleID),
		LockState: lockStateFromString(m.LockState),
	}
}

func lockStateFromString(s string) natives.LockState {
	switch s {
	case natives.LockStateUnlocked.String():
		return natives.LockStateUnlocked
	case natives.LockStateLocked.String():
		return natives.LockStateLocked
	default:
		return natives.LockStateNone
	}
}
