package services

import (
	"errors"
	"fmt"
	"guessd/internal/models"
	"guessd/internal/providers"
	"sort"
	"sync"
	"time"
)

var ErrEmptyParticipant = errors.New("participant id is empty")

// ScorePersister reads and writes the whole score blob.
type ScorePersister interface {
	Load() (models.Scores, error)
	Save(scores models.Scores) error
}

type ScoreEntry struct {
	ParticipantID string
	Stats         *models.ParticipantStats
}

type ScoreStoreInterface interface {
	Restore() error
	Get(participantID string) (*models.ParticipantStats, bool)
	Update(participantID string, fn func(stats *models.ParticipantStats) error) (*models.ParticipantStats, error)
	UpdateScore(participantID string, pointsWon, winsWon, currentStreakDisplay int) (*models.ParticipantStats, error)
	Entries() []ScoreEntry
	Len() int
	SweepExpiredBuffs(now time.Time) (int, error)
	Flush() error
	OnChange(fn func())
}

// ScoreStore is the single writer of participant records. Every mutation is
// a read-modify-write on a copy followed by a full save; records in the map
// are never modified in place, so snapshots can share them.
type ScoreStore struct {
	writeMu   sync.Mutex
	mu        sync.RWMutex
	records   map[string]*models.ParticipantStats
	order     []string
	persister ScorePersister
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	onChange  []func()
	now       func() time.Time
}

func NewScoreStore(persister ScorePersister, logger providers.Logger, metrics providers.MetricsProviderInterface) *ScoreStore {
	return &ScoreStore{
		records:   make(map[string]*models.ParticipantStats),
		persister: persister,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Restore replaces the in-memory records with the persisted blob. Insertion
// order is rebuilt from creation time, then id. Records without a creation
// time predate it and go first, in the order the blob listed them.
func (s *ScoreStore) Restore() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	scores, err := s.persister.Load()
	if err != nil {
		return fmt.Errorf("load scores: %w", err)
	}

	records := make(map[string]*models.ParticipantStats, len(scores))
	order := make([]string, 0, len(scores))
	for id, st := range scores {
		if id == "" || st == nil {
			continue
		}
		st.Normalize()
		records[id] = st
		order = append(order, id)
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := records[order[i]], records[order[j]]
		if a.CreatedAt.IsZero() || b.CreatedAt.IsZero() {
			if a.CreatedAt.IsZero() && b.CreatedAt.IsZero() {
				return a.LoadSeq < b.LoadSeq
			}
			return a.CreatedAt.IsZero()
		}
		if !a.CreatedAt.Equal(b.CreatedAt.Time) {
			return a.CreatedAt.Before(b.CreatedAt.Time)
		}
		return order[i] < order[j]
	})

	s.mu.Lock()
	s.records = records
	s.order = order
	s.mu.Unlock()

	s.metrics.SetParticipantsTotal(len(records))
	s.logger.Infof(providers.TypeScore, "Restored %d participants", len(records))
	s.notify()
	return nil
}

func (s *ScoreStore) Get(participantID string) (*models.ParticipantStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.records[participantID]
	if !ok {
		return nil, false
	}
	return st.Clone(), true
}

// Update runs fn on a copy of the participant's record (created with
// defaults when absent) and persists the whole store. If fn or the save
// fails, the previous record stays in place and the error is returned.
func (s *ScoreStore) Update(participantID string, fn func(stats *models.ParticipantStats) error) (*models.ParticipantStats, error) {
	if participantID == "" {
		return nil, ErrEmptyParticipant
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	prev, existed := s.records[participantID]
	s.mu.RUnlock()

	var next *models.ParticipantStats
	if existed {
		next = prev.Clone()
	} else {
		next = models.NewParticipantStats(s.now())
	}
	if err := fn(next); err != nil {
		return nil, err
	}
	next.Normalize()

	s.mu.Lock()
	s.records[participantID] = next
	if !existed {
		s.order = append(s.order, participantID)
	}
	s.mu.Unlock()

	if err := s.persistLocked(); err != nil {
		s.mu.Lock()
		if existed {
			s.records[participantID] = prev
		} else {
			delete(s.records, participantID)
			s.order = s.order[:len(s.order)-1]
		}
		s.mu.Unlock()
		s.logger.Errorf(providers.TypeScore, "Update of %s rolled back: %s", participantID, err)
		return nil, err
	}

	if !existed {
		s.metrics.SetParticipantsTotal(s.Len())
	}
	s.notify()
	return next.Clone(), nil
}

// UpdateScore adds points and wins and raises the highest streak to
// currentStreakDisplay when it is greater.
func (s *ScoreStore) UpdateScore(participantID string, pointsWon, winsWon, currentStreakDisplay int) (*models.ParticipantStats, error) {
	return s.Update(participantID, func(st *models.ParticipantStats) error {
		applyScore(st, pointsWon, winsWon, currentStreakDisplay)
		return nil
	})
}

// Entries returns copies of all records in insertion order.
func (s *ScoreStore) Entries() []ScoreEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ScoreEntry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, ScoreEntry{ParticipantID: id, Stats: s.records[id].Clone()})
	}
	return out
}

func (s *ScoreStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// SweepExpiredBuffs drops buffs that expired before now and persists when
// anything changed.
func (s *ScoreStore) SweepExpiredBuffs(now time.Time) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	removed := 0
	s.mu.Lock()
	for id, st := range s.records {
		if len(st.Buffs) == 0 {
			continue
		}
		cp := st.Clone()
		if n := cp.DropExpiredBuffs(now); n > 0 {
			s.records[id] = cp
			removed += n
		}
	}
	s.mu.Unlock()

	if removed == 0 {
		return 0, nil
	}
	if err := s.persistLocked(); err != nil {
		return removed, err
	}
	s.notify()
	return removed, nil
}

func (s *ScoreStore) Flush() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.persistLocked()
}

// OnChange registers fn to run after every persisted mutation and restore.
// Hooks run with the write lock held and must not call back into the store's
// mutating methods.
func (s *ScoreStore) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

func (s *ScoreStore) notify() {
	s.mu.RLock()
	hooks := s.onChange
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

// persistLocked must be called with writeMu held.
func (s *ScoreStore) persistLocked() error {
	s.mu.RLock()
	snapshot := make(models.Scores, len(s.records))
	for id, st := range s.records {
		snapshot[id] = st
	}
	s.mu.RUnlock()

	start := time.Now()
	err := s.persister.Save(snapshot)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	return nil
}
