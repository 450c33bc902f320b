// Package convert maps journal records onto their database rows.
package convert

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/seatwise/extension/internal/geo"
	"github.com/seatwise/extension/internal/model"
	"github.com/seatwise/extension/pkg/core"
)

// entryDetail is the free-form part of an entry attempt row.
type entryDetail struct {
	GrabSeats bool   `json:"grabSeats"`
	ModelHex  string `json:"modelHex"`
}

// CoreToSession converts a core.Session to a GORM model.Session
func CoreToSession(s core.Session) model.Session {
	m := model.Session{
		ID:               s.ID,
		StartTime:        s.StartTime,
		ExtensionVersion: s.ExtensionVersion,
		ExtensionBuild:   s.ExtensionBuild,
	}
	if !s.EndTime.IsZero() {
		end := s.EndTime
		m.EndTime = &end
	}
	return m
}

// CoreToEntryAttempt converts a core.EntryAttempt to a GORM model.EntryAttempt
func CoreToEntryAttempt(a core.EntryAttempt) model.EntryAttempt {
	pos, elev := geo.PointFromVector(a.PlayerPosition)
	detail, _ := json.Marshal(entryDetail{
		GrabSeats: a.GrabSeats,
		ModelHex:  fmt.Sprintf("0x%08X", uint32(a.Model)),
	})
	return model.EntryAttempt{
		ID:           a.ID,
		SessionID:    a.SessionID,
		Time:         a.Time,
		Mode:         string(a.Mode),
		VehicleID:    int32(a.Vehicle),
		Model:        int64(a.Model),
		Seat:         int(a.Seat),
		Flag:         int(a.Flag),
		TargetSource: a.TargetSource,
		Position:     pos,
		ElevationASL: float32(elev),
		Detail:       datatypes.JSON(detail),
	}
}

// CoreToGuardIntervention converts a core.GuardIntervention to a GORM model.GuardIntervention
func CoreToGuardIntervention(g core.GuardIntervention) model.GuardIntervention {
	return model.GuardIntervention{
		SessionID: g.SessionID,
		Time:      g.Time,
		Kind:      string(g.Kind),
		VehicleID: int32(g.Vehicle),
		LockState: g.LockState.String(),
	}
}
