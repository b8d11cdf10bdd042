package models

import (
	"sort"
	"time"
)

// ParticipantStats is the durable record kept per participant id.
// Every field has a defined default from creation; Normalize repairs
// records read from older files that lack some keys.
type ParticipantStats struct {
	Name          string              `json:"name,omitempty"`
	Points        int                 `json:"points"`
	Wins          int                 `json:"wins"`
	LastDaily     UnixTime            `json:"last_daily"`
	HighestStreak int                 `json:"highest_streak"`
	Buffs         map[string]UnixTime `json:"buffs"`
	Badges        []string            `json:"badges"`
	Inventory     map[string]int      `json:"inventory"`
	Collection    *Collection         `json:"collection"`
	CreatedAt     UnixTime            `json:"created_at"`

	// LoadSeq is the record's position in the file it was read from.
	LoadSeq int `json:"-"`
}

func NewParticipantStats(now time.Time) *ParticipantStats {
	return &ParticipantStats{
		Buffs:      make(map[string]UnixTime),
		Badges:     []string{},
		Inventory:  make(map[string]int),
		Collection: NewCollection(),
		CreatedAt:  NewUnixTime(now),
	}
}

func (ps *ParticipantStats) Normalize() {
	if ps.Buffs == nil {
		ps.Buffs = make(map[string]UnixTime)
	}
	if ps.Badges == nil {
		ps.Badges = []string{}
	}
	if ps.Inventory == nil {
		ps.Inventory = make(map[string]int)
	}
	if ps.Collection == nil {
		ps.Collection = NewCollection()
	}
	if ps.Points < 0 {
		ps.Points = 0
	}
	if ps.Wins < 0 {
		ps.Wins = 0
	}
	if ps.HighestStreak < 0 {
		ps.HighestStreak = 0
	}
}

// Clone returns a deep copy.
func (ps *ParticipantStats) Clone() *ParticipantStats {
	cp := *ps
	cp.Buffs = make(map[string]UnixTime, len(ps.Buffs))
	for k, v := range ps.Buffs {
		cp.Buffs[k] = v
	}
	cp.Badges = append([]string{}, ps.Badges...)
	cp.Inventory = make(map[string]int, len(ps.Inventory))
	for k, v := range ps.Inventory {
		cp.Inventory[k] = v
	}
	cp.Collection = ps.Collection.Clone()
	return &cp
}

func (ps *ParticipantStats) HasBadge(badge string) bool {
	for _, b := range ps.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// AddBadge keeps Badges sorted and free of duplicates.
func (ps *ParticipantStats) AddBadge(badge string) bool {
	if ps.HasBadge(badge) {
		return false
	}
	ps.Badges = append(ps.Badges, badge)
	sort.Strings(ps.Badges)
	return true
}

func (ps *ParticipantStats) BuffActive(buff string, now time.Time) bool {
	exp, ok := ps.Buffs[buff]
	return ok && exp.After(now)
}

// DropExpiredBuffs returns the number of buffs removed.
func (ps *ParticipantStats) DropExpiredBuffs(now time.Time) int {
	removed := 0
	for k, exp := range ps.Buffs {
		if !exp.After(now) {
			delete(ps.Buffs, k)
			removed++
		}
	}
	return removed
}
