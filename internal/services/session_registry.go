package services

import (
	"guessd/internal/models"
	"sort"
	"sync"
	"time"
)

// SessionRegistry is the set of channels with a running round. It is the
// only state shared between concurrent rounds.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*models.SessionState
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*models.SessionState)}
}

// TryAcquire inserts state unless its channel already has one.
func (r *SessionRegistry) TryAcquire(state *models.SessionState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.sessions[state.ChannelID]; busy {
		return false
	}
	r.sessions[state.ChannelID] = state
	return true
}

// Arm marks the round as collecting guesses until deadline.
func (r *SessionRegistry) Arm(channelID string, puzzle models.Puzzle, deadline time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.sessions[channelID]; ok {
		st.Puzzle = puzzle
		st.Deadline = deadline
		st.Active = true
	}
}

func (r *SessionRegistry) Release(channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, channelID)
}

func (r *SessionRegistry) Get(channelID string) (models.SessionState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.sessions[channelID]
	if !ok {
		return models.SessionState{}, false
	}
	return *st, true
}

func (r *SessionRegistry) Channels() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sessions))
	for ch := range r.sessions {
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
