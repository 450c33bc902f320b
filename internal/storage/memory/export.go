// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/seatwise/extension/pkg/natives"
)

// JournalExport is the root JSON structure
type JournalExport struct {
	SessionID        string             `json:"sessionId"`
	ExtensionVersion string             `json:"extensionVersion"`
	ExtensionBuild   string             `json:"extensionBuild"`
	StartTime        time.Time          `json:"startTime"`
	EndTime          time.Time          `json:"endTime"`
	EntryAttempts    []EntryAttemptJSON `json:"entryAttempts"`
	Interventions    []InterventionJSON `json:"interventions"`
}

// EntryAttemptJSON is one issued enter-vehicle command
type EntryAttemptJSON struct {
	ID           string          `json:"id"`
	Time         time.Time       `json:"time"`
	Mode         string          `json:"mode"`
	Vehicle      int32           `json:"vehicle"`
	Model        string          `json:"model"`
	Seat         int             `json:"seat"`
	Flag         int             `json:"flag"`
	TargetSource string          `json:"targetSource"`
	GrabSeats    bool            `json:"grabSeats,omitempty"`
	Position     natives.Vector3 `json:"position"`
}

// InterventionJSON is one task cancellation by the tick guard
type InterventionJSON struct {
	Time      time.Time `json:"time"`
	Kind      string    `json:"kind"`
	Vehicle   int32     `json:"vehicle,omitempty"`
	LockState string    `json:"lockState,omitempty"`
}

// exportJSON writes the journal to a (optionally gzipped) JSON file
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	timestamp := b.session.StartTime.Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.json", b.session.ID, timestamp)
	if b.cfg.CompressOutput {
		filename += ".gz"
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, export)
	} else {
		err = writeJSON(outputPath, export)
	}
	if err != nil {
		return err
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() JournalExport {
	export := JournalExport{
		SessionID:        b.session.ID.String(),
		ExtensionVersion: b.session.ExtensionVersion,
		ExtensionBuild:   b.session.ExtensionBuild,
		StartTime:        b.session.StartTime,
		EndTime:          b.session.EndTime,
		EntryAttempts:    make([]EntryAttemptJSON, 0, len(b.attempts)),
		Interventions:    make([]InterventionJSON, 0, len(b.interventions)),
	}

	for _, a := range b.attempts {
		export.EntryAttempts = append(export.EntryAttempts, EntryAttemptJSON{
			ID:           a.ID.String(),
			Time:         a.Time,
			Mode:         string(a.Mode),
			Vehicle:      int32(a.Vehicle),
			Model:        fmt.Sprintf("0x%08X", uint32(a.Model)),
			Seat:         int(a.Seat),
			Flag:         int(a.Flag),
			TargetSource: a.TargetSource,
			GrabSeats:    a.GrabSeats,
			Position:     a.PlayerPosition,
		})
	}

	for _, g := range b.interventions {
		iv := InterventionJSON{
			Time:    g.Time,
			Kind:    string(g.Kind),
			Vehicle: int32(g.Vehicle),
		}
		if g.LockState != natives.LockStateNone {
			iv.LockState = g.LockState.String()
		}
		export.Interventions = append(export.Interventions, iv)
	}

	return export
}

func writeJSON(path string, data JournalExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data JournalExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}
