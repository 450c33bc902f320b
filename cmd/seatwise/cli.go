package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/seatwise/extension/internal/config"
	gormstorage "github.com/seatwise/extension/internal/storage/gorm"
	"github.com/seatwise/extension/internal/storage/memory"
	pgstorage "github.com/seatwise/extension/internal/storage/postgres"
	sqlitestorage "github.com/seatwise/extension/internal/storage/sqlite"
	"github.com/seatwise/extension/pkg/core"
)

// journalReader is a database backend that can read stored journals back.
type journalReader interface {
	Init() error
	Close() error
	Sessions(limit int) ([]core.Session, error)
	LoadJournal(id uuid.UUID) (*gormstorage.Journal, error)
}

// main is only used when the library is built as a standalone binary to
// inspect journals stored in sqlite or postgres.
func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage(os.Stdout)
		return
	}

	var err error
	switch strings.ToLower(args[0]) {
	case "sessions":
		limit := 20
		if len(args) > 1 {
			if limit, err = strconv.Atoi(args[1]); err != nil {
				err = fmt.Errorf("invalid limit %q: %w", args[1], err)
				break
			}
		}
		err = withReader(config.GetStorageConfig(), func(r journalReader) error {
			return listSessions(os.Stdout, r, limit)
		})

	case "export":
		if len(args) < 2 {
			fmt.Println("No session IDs provided.")
			return
		}
		storageCfg := config.GetStorageConfig()
		memCfg := storageCfg.Memory
		memCfg.OutputDir = resolvePath(memCfg.OutputDir)
		err = withReader(storageCfg, func(r journalReader) error {
			return exportSessions(os.Stdout, r, memCfg, args[1:])
		})

	default:
		printUsage(os.Stdout)
		return
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: %s sessions [limit] | export <session-id>...\n", ExtensionName)
}

// openReader returns the database backend configured in cfg, uninitialized.
func openReader(cfg config.StorageConfig) (journalReader, error) {
	switch strings.ToLower(cfg.Type) {
	case "sqlite":
		sqliteCfg := cfg.SQLite
		sqliteCfg.Path = resolvePath(sqliteCfg.Path)
		return sqlitestorage.New(sqliteCfg, StorageLogger), nil
	case "postgres":
		return pgstorage.New(StorageLogger), nil
	default:
		return nil, fmt.Errorf("storage type %q has no readable journal, use sqlite or postgres", cfg.Type)
	}
}

func withReader(cfg config.StorageConfig, fn func(journalReader) error) error {
	r, err := openReader(cfg)
	if err != nil {
		return err
	}
	if err := r.Init(); err != nil {
		return err
	}
	defer r.Close()
	return fn(r)
}

func listSessions(w io.Writer, r journalReader, limit int) error {
	sessions, err := r.Sessions(limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tSTARTED\tDURATION\tVERSION")
	for _, s := range sessions {
		duration := "open"
		if !s.EndTime.IsZero() {
			duration = s.EndTime.Sub(s.StartTime).Round(time.Second).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			s.ID, s.StartTime.UTC().Format(time.RFC3339), duration, s.ExtensionVersion)
	}
	return tw.Flush()
}

// exportSessions writes each session's journal as a JSON export through the
// memory backend.
func exportSessions(w io.Writer, r journalReader, out config.MemoryConfig, ids []string) error {
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid session id %q: %w", raw, err)
		}
		j, err := r.LoadJournal(id)
		if err != nil {
			return err
		}

		m := memory.New(out)
		if err := m.StartSession(&j.Session); err != nil {
			return err
		}
		for i := range j.Attempts {
			if err := m.RecordEntryAttempt(&j.Attempts[i]); err != nil {
				return err
			}
		}
		for i := range j.Interventions {
			if err := m.RecordGuardIntervention(&j.Interventions[i]); err != nil {
				return err
			}
		}
		if err := m.EndSession(&j.Session); err != nil {
			return fmt.Errorf("failed to export session %s: %w", id, err)
		}
		fmt.Fprintf(w, "%s: %d attempts, %d interventions -> %s\n",
			id, len(j.Attempts), len(j.Interventions), m.ExportedFilePath())
	}
	return nil
}
