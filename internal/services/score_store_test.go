package services

import (
	"errors"
	"fmt"
	"guessd/internal/models"
	"guessd/internal/testutil"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStoreWith(t *testing.T, p *testutil.MockPersister) *ScoreStore {
	t.Helper()
	s := NewScoreStore(p, &testutil.MockLogger{}, testutil.NewMockMetrics())
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s
}

func newTestStore(t *testing.T) *ScoreStore {
	return newTestStoreWith(t, testutil.NewMockPersister())
}

func TestScoreStore_UpdateScoreCreatesLazily(t *testing.T) {
	p := testutil.NewMockPersister()
	s := newTestStoreWith(t, p)

	st, err := s.UpdateScore("alice", 5, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, st.Points)
	assert.Equal(t, 1, st.Wins)
	assert.Equal(t, 1, st.HighestStreak)
	assert.NotNil(t, st.Buffs)
	assert.NotNil(t, st.Inventory)
	assert.Equal(t, []string{}, st.Badges)

	assert.Equal(t, 1, p.Saves)
	saved := p.Snapshot()
	require.Contains(t, saved, "alice")
	assert.Equal(t, 5, saved["alice"].Points)
}

func TestScoreStore_HighestStreakNeverDecreases(t *testing.T) {
	s := newTestStore(t)

	var got []int
	for _, display := range []int{3, 1, 5, 2, 5} {
		st, err := s.UpdateScore("alice", 1, 1, display)
		require.NoError(t, err)
		got = append(got, st.HighestStreak)
	}
	assert.Equal(t, []int{3, 3, 5, 5, 5}, got)
}

func TestScoreStore_ConcurrentUpdatesSameParticipant(t *testing.T) {
	p := testutil.NewMockPersister()
	s := newTestStoreWith(t, p)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateScore("alice", 2, 1, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st, ok := s.Get("alice")
	require.True(t, ok)
	assert.Equal(t, 2*n, st.Points)
	assert.Equal(t, n, st.Wins)
	assert.Equal(t, 2*n, p.Snapshot()["alice"].Points)
}

func TestScoreStore_ConcurrentUpdatesDifferentParticipants(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, err := s.UpdateScore(id, 1, 1, 1)
				assert.NoError(t, err)
			}
		}(fmt.Sprintf("p%d", i))
	}
	wg.Wait()

	assert.Equal(t, 20, s.Len())
	for _, e := range s.Entries() {
		assert.Equal(t, 10, e.Stats.Points)
	}
}

func TestScoreStore_SaveFailureRollsBack(t *testing.T) {
	p := testutil.NewMockPersister()
	s := newTestStoreWith(t, p)

	_, err := s.UpdateScore("alice", 5, 1, 1)
	require.NoError(t, err)

	p.FailOn = func(int) bool { return true }

	_, err = s.UpdateScore("alice", 100, 1, 9)
	assert.ErrorIs(t, err, testutil.ErrMockSave)
	st, _ := s.Get("alice")
	assert.Equal(t, 5, st.Points)
	assert.Equal(t, 1, st.HighestStreak)

	_, err = s.UpdateScore("bob", 3, 1, 1)
	assert.ErrorIs(t, err, testutil.ErrMockSave)
	_, ok := s.Get("bob")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
	assert.Len(t, s.Entries(), 1)
}

func TestScoreStore_OnChangeFiresOnlyAfterPersistedMutations(t *testing.T) {
	p := testutil.NewMockPersister()
	s := newTestStoreWith(t, p)
	calls := 0
	s.OnChange(func() { calls++ })

	_, err := s.UpdateScore("alice", 5, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = s.Update("alice", func(*models.ParticipantStats) error { return errors.New("boom") })
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	p.FailOn = func(int) bool { return true }
	_, err = s.UpdateScore("alice", 5, 1, 1)
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	p.FailOn = nil
	removed, err := s.SweepExpiredBuffs(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Equal(t, 1, calls)

	require.NoError(t, s.Restore())
	assert.Equal(t, 2, calls)
}

func TestScoreStore_UpdateFnErrorSkipsSave(t *testing.T) {
	p := testutil.NewMockPersister()
	s := newTestStoreWith(t, p)
	boom := errors.New("boom")

	_, err := s.Update("alice", func(st *models.ParticipantStats) error {
		st.Points = 99
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, p.Saves)
	assert.Equal(t, 0, s.Len())
}

func TestScoreStore_EmptyParticipant(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateScore("", 1, 1, 1)
	assert.ErrorIs(t, err, ErrEmptyParticipant)
}

func TestScoreStore_GetReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateScore("alice", 5, 1, 1)
	require.NoError(t, err)

	st, _ := s.Get("alice")
	st.Points = 1000
	st.Inventory["answer"] = 3

	again, _ := s.Get("alice")
	assert.Equal(t, 5, again.Points)
	assert.Empty(t, again.Inventory)
}

func TestScoreStore_EntriesKeepInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"c", "a", "b"} {
		_, err := s.UpdateScore(id, 1, 1, 1)
		require.NoError(t, err)
	}
	_, err := s.UpdateScore("c", 1, 1, 1)
	require.NoError(t, err)

	var ids []string
	for _, e := range s.Entries() {
		ids = append(ids, e.ParticipantID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestScoreStore_Restore(t *testing.T) {
	p := testutil.NewMockPersister()
	older := models.NewParticipantStats(time.Unix(100, 0))
	older.Points = 7
	newer := &models.ParticipantStats{Points: 3, CreatedAt: models.NewUnixTime(time.Unix(200, 0))}
	p.Data = models.Scores{"zed": older, "amy": newer}

	s := newTestStoreWith(t, p)
	require.NoError(t, s.Restore())

	assert.Equal(t, 2, s.Len())
	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "zed", entries[0].ParticipantID)
	assert.Equal(t, "amy", entries[1].ParticipantID)

	amy, _ := s.Get("amy")
	assert.NotNil(t, amy.Buffs)
	assert.NotNil(t, amy.Collection)
}

func TestScoreStore_RestoreKeepsBlobOrderForUndatedRecords(t *testing.T) {
	var blob models.Scores
	require.NoError(t, json.Unmarshal([]byte(`{
		"900": {"points": 5, "created_at": 1700000100},
		"zed": {"points": 5},
		"amy": {"points": 5},
		"100": {"points": 5, "created_at": 1700000000}
	}`), &blob))

	p := testutil.NewMockPersister()
	p.Data = blob
	s := newTestStoreWith(t, p)
	require.NoError(t, s.Restore())

	var ids []string
	for _, e := range s.Entries() {
		ids = append(ids, e.ParticipantID)
	}
	assert.Equal(t, []string{"zed", "amy", "100", "900"}, ids)

	page := NewLeaderboardService(s).Page(0)
	require.Len(t, page.Entries, 4)
	assert.Equal(t, "zed", page.Entries[0].ParticipantID)
	assert.Equal(t, "amy", page.Entries[1].ParticipantID)
}

func TestScoreStore_RestoreError(t *testing.T) {
	p := testutil.NewMockPersister()
	p.LoadErr = errors.New("corrupt")
	s := newTestStoreWith(t, p)
	assert.Error(t, s.Restore())
}

func TestScoreStore_SweepExpiredBuffs(t *testing.T) {
	p := testutil.NewMockPersister()
	s := newTestStoreWith(t, p)
	now := time.Unix(1700000000, 0)

	_, err := s.Update("alice", func(st *models.ParticipantStats) error {
		st.Buffs["time"] = models.NewUnixTime(now.Add(-time.Minute))
		st.Buffs["boost"] = models.NewUnixTime(now.Add(time.Hour))
		return nil
	})
	require.NoError(t, err)
	saves := p.Saves

	removed, err := s.SweepExpiredBuffs(now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, saves+1, p.Saves)

	st, _ := s.Get("alice")
	assert.NotContains(t, st.Buffs, "time")
	assert.Contains(t, st.Buffs, "boost")

	removed, err = s.SweepExpiredBuffs(now)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, saves+1, p.Saves, "nothing expired, nothing saved")
}

func TestScoreStore_Flush(t *testing.T) {
	p := testutil.NewMockPersister()
	s := newTestStoreWith(t, p)
	require.NoError(t, s.Flush())
	assert.Equal(t, 1, p.Saves)
}
