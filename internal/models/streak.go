package models

// StreakState tracks consecutive wins in one channel. It lives in memory only.
type StreakState struct {
	LastWinnerID string
	StreakCount  int
	// Consecutive counts the unbroken wins of LastWinnerID, starting at 1.
	Consecutive int
}
