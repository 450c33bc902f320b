package sqlitestorage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwise/extension/internal/config"
	"github.com/seatwise/extension/internal/model"
	"github.com/seatwise/extension/internal/storage"
	"github.com/seatwise/extension/pkg/core"
)

// Compile-time interface check
var _ storage.Backend = (*Backend)(nil)

func TestNotInitialized(t *testing.T) {
	b := New(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "x.db")}, zerolog.Nop())
	assert.Error(t, b.StartSession(&core.Session{ID: uuid.New()}))
	assert.NoError(t, b.Close())
}

func TestInitCreatesFileAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journals", "seatwise.db")
	b := New(config.SQLiteConfig{Path: path}, zerolog.Nop())

	require.NoError(t, b.Init())
	assert.FileExists(t, path)

	s := &core.Session{ID: uuid.New(), StartTime: time.Now()}
	require.NoError(t, b.StartSession(s))
	require.NoError(t, b.RecordEntryAttempt(&core.EntryAttempt{ID: uuid.New(), SessionID: s.ID, Time: time.Now(), Mode: core.EntryModeDriver}))
	require.NoError(t, b.Close())

	// reopen and read back
	b2 := New(config.SQLiteConfig{Path: path}, zerolog.Nop())
	require.NoError(t, b2.Init())
	defer b2.Close()

	var count int64
	require.NoError(t, b2.DB().Model(&model.EntryAttempt{}).Where("session_id = ?", s.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
