package controllers

import (
	"guessd/internal/providers"
	"guessd/internal/services"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
)

type ApiController struct {
	logger      providers.Logger
	leaderboard services.LeaderboardServiceInterface
	sessions    services.SessionServiceInterface
	cache       providers.CacheProviderInterface
}

// NewApiController drops cached views whenever the score store changes.
func NewApiController(logger providers.Logger, scores services.ScoreStoreInterface, leaderboard services.LeaderboardServiceInterface,
	sessions services.SessionServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	scores.OnChange(cache.Clear)
	return &ApiController{
		logger:      logger,
		leaderboard: leaderboard,
		sessions:    sessions,
		cache:       cache,
	}
}

type profileResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Points        int      `json:"points"`
	Wins          int      `json:"wins"`
	HighestStreak int      `json:"highest_streak"`
	Badges        []string `json:"badges"`
	Collection    []uint32 `json:"collection"`
}

type sessionsResponse struct {
	Active  []string `json:"active"`
	Started int64    `json:"started"`
	Won     int64    `json:"won"`
	Expired int64    `json:"expired"`
	Failed  int64    `json:"failed"`
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		ac.logger.Errorf(providers.TypeGet, "Encode %s: %s", cacheKey, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, http.StatusOK, gson)
}

// GetLeaderboard serves one page of the ranking. Out of range pages are
// clamped the same way the chat buttons are.
func (ac *ApiController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		page = n
	}

	ac.serveFromCacheOrCompute(w, "lb:"+strconv.Itoa(page), func() (any, error) {
		return ac.leaderboard.Page(page), nil
	})
}

func (ac *ApiController) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	stats, ok := ac.leaderboard.Profile(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	ac.serveFromCacheOrCompute(w, "profile:"+id, func() (any, error) {
		return profileResponse{
			ID:            id,
			Name:          stats.Name,
			Points:        stats.Points,
			Wins:          stats.Wins,
			HighestStreak: stats.HighestStreak,
			Badges:        stats.Badges,
			Collection:    stats.Collection.Ranks(),
		}, nil
	})
}

func (ac *ApiController) GetSessions(w http.ResponseWriter, r *http.Request) {
	st := ac.sessions.Stats()
	gson, err := json.Marshal(sessionsResponse{
		Active:  ac.sessions.ActiveChannels(),
		Started: st.Started,
		Won:     st.Won,
		Expired: st.Expired,
		Failed:  st.Failed,
	})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, gson)
}

// PurgeCache drops every cached view so the next reads are computed fresh.
func (ac *ApiController) PurgeCache(w http.ResponseWriter, r *http.Request) {
	ac.cache.Clear()
	ac.logger.Infof(providers.TypePost, "Cache purged by %s", r.RemoteAddr)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
