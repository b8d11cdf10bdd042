package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"guessd/internal/models"
	"guessd/internal/services"
	"guessd/internal/testutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- local mocks (scoped to controller tests) ---

type stubSessions struct {
	active []string
	stats  services.SessionStats
}

func (s *stubSessions) Start(context.Context, string, string) (*services.Session, error) {
	return nil, services.ErrAlreadyActive
}
func (s *stubSessions) IsActive(string) bool         { return false }
func (s *stubSessions) ActiveChannels() []string     { return s.active }
func (s *stubSessions) Stats() services.SessionStats { return s.stats }
func (s *stubSessions) Wait()                        {}

// --- helpers ---

func newStore(t *testing.T, n int) *services.ScoreStore {
	t.Helper()
	store := services.NewScoreStore(testutil.NewMockPersister(), &testutil.MockLogger{}, testutil.NewMockMetrics())
	for i := 0; i < n; i++ {
		_, err := store.Update(fmt.Sprintf("u%02d", i), func(st *models.ParticipantStats) error {
			st.Points = (i + 1) * 10
			st.Wins = 1
			st.Name = fmt.Sprintf("Player %d", i)
			st.Collection.Add(uint32(i + 1))
			return nil
		})
		require.NoError(t, err)
	}
	return store
}

func newTestController(store *services.ScoreStore, cache *testutil.MockCache) *ApiController {
	return NewApiController(&testutil.MockLogger{}, store, services.NewLeaderboardService(store), &stubSessions{active: []string{"-100"}}, cache)
}

func get(handler http.HandlerFunc, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// --- GetLeaderboard tests ---

func TestGetLeaderboard_FirstPage(t *testing.T) {
	ac := newTestController(newStore(t, 25), testutil.NewMockCache())

	rr := get(ac.GetLeaderboard, "/leaderboard")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var view models.PageView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, 0, view.Page)
	assert.Equal(t, 3, view.TotalPages)
	assert.False(t, view.HasPrev)
	assert.True(t, view.HasNext)
	require.Len(t, view.Entries, 10)
	assert.Equal(t, "u24", view.Entries[0].ParticipantID)
	assert.Equal(t, 250, view.Entries[0].Points)
}

func TestGetLeaderboard_ClampsAndCaches(t *testing.T) {
	cache := testutil.NewMockCache()
	ac := newTestController(newStore(t, 25), cache)

	rr := get(ac.GetLeaderboard, "/leaderboard?page=7")
	require.Equal(t, http.StatusOK, rr.Code)

	var view models.PageView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, 2, view.Page)
	assert.False(t, view.HasNext)
	assert.Len(t, view.Entries, 5)

	cached, ok := cache.Get("lb:7")
	require.True(t, ok)
	assert.Equal(t, rr.Body.Bytes(), cached)
}

func TestGetLeaderboard_ServedFromCache(t *testing.T) {
	cache := testutil.NewMockCache()
	cache.Set("lb:0", []byte(`{"page":0,"cached":true}`))
	ac := newTestController(newStore(t, 1), cache)

	rr := get(ac.GetLeaderboard, "/leaderboard?page=0")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"page":0,"cached":true}`, rr.Body.String())
}

func TestGetLeaderboard_BadPage(t *testing.T) {
	ac := newTestController(newStore(t, 1), testutil.NewMockCache())
	rr := get(ac.GetLeaderboard, "/leaderboard?page=two")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetLeaderboard_Empty(t *testing.T) {
	ac := newTestController(newStore(t, 0), testutil.NewMockCache())
	rr := get(ac.GetLeaderboard, "/leaderboard")

	var view models.PageView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, 1, view.TotalPages)
	assert.False(t, view.HasPrev)
	assert.False(t, view.HasNext)
}

// --- GetProfile tests ---

func TestGetProfile(t *testing.T) {
	ac := newTestController(newStore(t, 3), testutil.NewMockCache())

	rr := get(ac.GetProfile, "/profile?id=u01")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "u01", resp["id"])
	assert.Equal(t, "Player 1", resp["name"])
	assert.Equal(t, float64(20), resp["points"])
	assert.Equal(t, []interface{}{float64(2)}, resp["collection"])
}

func TestGetProfile_Errors(t *testing.T) {
	ac := newTestController(newStore(t, 1), testutil.NewMockCache())
	assert.Equal(t, http.StatusBadRequest, get(ac.GetProfile, "/profile").Code)
	assert.Equal(t, http.StatusNotFound, get(ac.GetProfile, "/profile?id=nobody").Code)
}

// --- GetSessions tests ---

func TestGetSessions(t *testing.T) {
	store := newStore(t, 0)
	sessions := &stubSessions{active: []string{"-100", "-200"}, stats: services.SessionStats{Started: 5, Won: 3, Expired: 2}}
	ac := NewApiController(&testutil.MockLogger{}, store, services.NewLeaderboardService(store), sessions, testutil.NewMockCache())

	rr := get(ac.GetSessions, "/sessions")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"active":["-100","-200"],"started":5,"won":3,"expired":2,"failed":0}`, rr.Body.String())
}

func TestPurgeCache(t *testing.T) {
	cache := testutil.NewMockCache()
	cache.Set("lb:0", []byte(`{}`))
	ac := newTestController(newStore(t, 1), cache)

	req := httptest.NewRequest(http.MethodPost, "/cache/purge", nil)
	rr := httptest.NewRecorder()
	ac.PurgeCache(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	_, ok := cache.Get("lb:0")
	assert.False(t, ok)
}

func TestScoreChangeInvalidatesCachedViews(t *testing.T) {
	store := newStore(t, 3)
	cache := testutil.NewMockCache()
	ac := newTestController(store, cache)

	require.Equal(t, http.StatusOK, get(ac.GetLeaderboard, "/leaderboard?page=0").Code)
	require.Equal(t, http.StatusOK, get(ac.GetProfile, "/profile?id=u00").Code)
	_, ok := cache.Get("lb:0")
	require.True(t, ok)

	_, err := store.UpdateScore("newcomer", 1000, 1, 1)
	require.NoError(t, err)

	_, ok = cache.Get("lb:0")
	assert.False(t, ok)
	_, ok = cache.Get("profile:u00")
	assert.False(t, ok)

	rr := get(ac.GetLeaderboard, "/leaderboard?page=0")
	var view models.PageView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	require.NotEmpty(t, view.Entries)
	assert.Equal(t, "newcomer", view.Entries[0].ParticipantID)
}
