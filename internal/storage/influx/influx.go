// Package influxstorage implements the storage.Backend interface by writing
// journal records as InfluxDB points.
package influxstorage

import (
	"context"
	"fmt"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"github.com/seatwise/extension/internal/influx"
	"github.com/seatwise/extension/pkg/core"
)

// Measurement names
const (
	MeasurementSession      = "session"
	MeasurementEntryAttempt = "entry_attempt"
	MeasurementIntervention = "guard_intervention"
)

// Backend writes journal records through an influx.Manager.
type Backend struct {
	manager *influx.Manager
	log     zerolog.Logger
}

// New creates a new InfluxDB storage backend.
func New(cfg influx.Config, log zerolog.Logger) *Backend {
	return &Backend{
		manager: influx.NewManager(cfg, log),
		log:     log,
	}
}

// Init connects to InfluxDB or opens the backup file.
func (b *Backend) Init() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.manager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to init influx: %w", err)
	}
	return nil
}

// Close flushes and releases the manager.
func (b *Backend) Close() error {
	return b.manager.Close()
}

// StartSession writes a session start marker.
func (b *Backend) StartSession(s *core.Session) error {
	return b.manager.WritePoint(SessionPoint(s, "start", s.StartTime))
}

// EndSession writes a session end marker.
func (b *Backend) EndSession(s *core.Session) error {
	end := s.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	p := SessionPoint(s, "end", end)
	p.AddField("duration_s", end.Sub(s.StartTime).Seconds())
	return b.manager.WritePoint(p)
}

// RecordEntryAttempt writes an entry_attempt point.
func (b *Backend) RecordEntryAttempt(a *core.EntryAttempt) error {
	return b.manager.WritePoint(EntryAttemptPoint(a))
}

// RecordGuardIntervention writes a guard_intervention point.
func (b *Backend) RecordGuardIntervention(g *core.GuardIntervention) error {
	return b.manager.WritePoint(InterventionPoint(g))
}

// SessionPoint builds a session marker point.
func SessionPoint(s *core.Session, event string, ts time.Time) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(MeasurementSession,
		map[string]string{
			"session": s.ID.String(),
			"event":   event,
		},
		map[string]interface{}{
			"version": s.ExtensionVersion,
			"build":   s.ExtensionBuild,
		},
		ts)
}

// EntryAttemptPoint builds the point for one entry attempt.
func EntryAttemptPoint(a *core.EntryAttempt) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(MeasurementEntryAttempt,
		map[string]string{
			"session": a.SessionID.String(),
			"mode":    string(a.Mode),
			"source":  a.TargetSource,
			"model":   fmt.Sprintf("0x%08X", uint32(a.Model)),
		},
		map[string]interface{}{
			"id":         a.ID.String(),
			"vehicle":    int64(a.Vehicle),
			"seat":       int64(a.Seat),
			"flag":       int64(a.Flag),
			"grab_seats": a.GrabSeats,
			"x":          a.PlayerPosition.X,
			"y":          a.PlayerPosition.Y,
			"z":          a.PlayerPosition.Z,
		},
		a.Time)
}

// InterventionPoint builds the point for one guard intervention.
func InterventionPoint(g *core.GuardIntervention) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(MeasurementIntervention,
		map[string]string{
			"session": g.SessionID.String(),
			"kind":    string(g.Kind),
		},
		map[string]interface{}{
			"vehicle": int64(g.Vehicle),
			"lock":    g.LockState.String(),
		},
		g.Time)
}
