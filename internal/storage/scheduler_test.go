package storage

import (
	"guessd/internal/models"
	"guessd/internal/services"
	"guessd/internal/structures"
	"guessd/internal/testutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(filePath string) *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{
			FilePath:      filePath,
			SweepInterval: time.Second,
		},
	}
}

func newTestScheduler(t *testing.T, path string) (*Scheduler, *services.ScoreStore) {
	t.Helper()
	conf := testConfig(path)
	logger := &testutil.MockLogger{}
	fm := NewFileManager(conf, &testutil.MockCompressor{}, logger)
	store := services.NewScoreStore(fm, logger, testutil.NewMockMetrics())
	return NewScheduler(conf, logger, store).(*Scheduler), store
}

func TestScheduler_RestoreAndPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"7":{"points":30,"wins":2}}`), 0o644))

	s, store := newTestScheduler(t, path)
	require.NoError(t, s.Restore())

	st, ok := store.Get("7")
	require.True(t, ok)
	assert.Equal(t, 30, st.Points)

	require.NoError(t, os.Remove(path))
	require.NoError(t, s.Persist())
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestScheduler_RestoreCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	s, _ := newTestScheduler(t, path)
	assert.Error(t, s.Restore())
}

func TestScheduler_SweepRemovesExpiredBuffs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	s, store := newTestScheduler(t, path)
	now := time.Unix(1700000000, 0)
	s.now = func() time.Time { return now }

	_, err := store.Update("7", func(st *models.ParticipantStats) error {
		st.Buffs["double"] = models.NewUnixTime(now.Add(-time.Second))
		return nil
	})
	require.NoError(t, err)

	s.sweep()

	st, _ := store.Get("7")
	assert.Empty(t, st.Buffs)

	fm := NewFileManager(testConfig(path), &testutil.MockCompressor{}, &testutil.MockLogger{})
	saved, err := fm.Load()
	require.NoError(t, err)
	assert.Empty(t, saved["7"].Buffs)
}

func TestScheduler_InitStop(t *testing.T) {
	s, _ := newTestScheduler(t, filepath.Join(t.TempDir(), "scores.json"))
	s.Init()
	s.Stop()
}
