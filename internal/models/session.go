package models

import "time"

// SessionState exists only while a round is running in a channel.
type SessionState struct {
	ChannelID string
	StartedBy string
	Puzzle    Puzzle
	Deadline  time.Time
	Active    bool
}

// ChatMessage is a participant-authored text event delivered by the transport.
type ChatMessage struct {
	ChannelID  string
	MessageID  string
	AuthorID   string
	AuthorName string
	FromBot    bool
	Text       string
	SentAt     time.Time
}

// MessageHandle identifies a published puzzle so results can reply to it.
type MessageHandle struct {
	ChannelID string
	MessageID string
}

type Outcome string

const (
	OutcomeWon     Outcome = "won"
	OutcomeExpired Outcome = "expired"
)

type RoundResult struct {
	Outcome    Outcome
	ChannelID  string
	Puzzle     Puzzle
	WinnerID   string
	WinnerName string
	// WinningMessageID is the accepted guess; win results reply to it.
	WinningMessageID string
	BasePoints       int
	Points           int
	Multiplier       float64
	StreakIndex      int
	DisplayStreak    int
	Stats            *ParticipantStats
}
