package services

import (
	"guessd/internal/models"
	"sync"
)

// maxStreakIndex caps the doubling so reward arithmetic cannot overflow.
const maxStreakIndex = 1 << 30

type StreakTrackerInterface interface {
	Peek(channelID, participantID string) models.StreakState
	Commit(channelID string, state models.StreakState)
	RecordWin(channelID, participantID string) (streakIndex, displayStreak int)
	Get(channelID string) (models.StreakState, bool)
}

// StreakTracker keeps the last winner per channel. State is never persisted.
type StreakTracker struct {
	mu       sync.Mutex
	channels map[string]models.StreakState
}

func NewStreakTracker() StreakTrackerInterface {
	return &StreakTracker{channels: make(map[string]models.StreakState)}
}

// NextStreak applies one win to prev. A repeat winner doubles the count;
// since doubling 0 stays 0, the count is seeded with 1 on the third
// consecutive win, giving 0, 0, 1, 2, 4, ... Anyone else takes over with 0.
func NextStreak(prev models.StreakState, participantID string) models.StreakState {
	if prev.LastWinnerID == "" || prev.LastWinnerID != participantID {
		return models.StreakState{LastWinnerID: participantID, StreakCount: 0, Consecutive: 1}
	}

	next := models.StreakState{LastWinnerID: participantID, Consecutive: prev.Consecutive + 1}
	switch {
	case prev.StreakCount > 0:
		next.StreakCount = min(prev.StreakCount*2, maxStreakIndex)
	case next.Consecutive >= 3:
		next.StreakCount = 1
	}
	return next
}

// Peek computes the state a win would produce without storing it.
func (t *StreakTracker) Peek(channelID, participantID string) models.StreakState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return NextStreak(t.channels[channelID], participantID)
}

func (t *StreakTracker) Commit(channelID string, state models.StreakState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.channels[channelID] = state
}

func (t *StreakTracker) RecordWin(channelID, participantID string) (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := NextStreak(t.channels[channelID], participantID)
	t.channels[channelID] = next
	return next.StreakCount, next.StreakCount + 1
}

func (t *StreakTracker) Get(channelID string) (models.StreakState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.channels[channelID]
	return st, ok
}
