package services

import (
	"context"
	"errors"
	"fmt"
	"guessd/internal/matcher"
	"guessd/internal/models"
	"guessd/internal/providers"
	"guessd/internal/structures"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const DefaultRoundDuration = 30 * time.Second

var (
	ErrAlreadyActive     = errors.New("a round is already running in this channel")
	ErrChannelNotAllowed = errors.New("rounds are not enabled in this channel")
	ErrTransportClosed   = errors.New("message stream closed")
)

// Transport is the chat boundary a round talks to.
type Transport interface {
	PublishPuzzle(ctx context.Context, channelID string, puzzle models.Puzzle) (models.MessageHandle, error)
	// Subscribe streams participant messages of a channel until cancel is called.
	Subscribe(channelID string) (msgs <-chan models.ChatMessage, cancel func())
	Reply(ctx context.Context, handle models.MessageHandle, result *models.RoundResult) error
}

type PuzzleSource interface {
	PickPuzzle() (models.Puzzle, error)
}

// Session is the handle of one running round.
type Session struct {
	ChannelID string
	Puzzle    models.Puzzle
	done      chan struct{}
	result    *models.RoundResult
	err       error
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the round finishes or ctx ends.
func (s *Session) Wait(ctx context.Context) (*models.RoundResult, error) {
	select {
	case <-s.done:
		return s.result, s.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type SessionStats struct {
	Started int64 `json:"started"`
	Won     int64 `json:"won"`
	Expired int64 `json:"expired"`
	Failed  int64 `json:"failed"`
	Active  int   `json:"active"`
}

type SessionServiceInterface interface {
	Start(ctx context.Context, channelID, initiatorID string) (*Session, error)
	IsActive(channelID string) bool
	ActiveChannels() []string
	Stats() SessionStats
	Wait()
}

type SessionService struct {
	registry  *SessionRegistry
	source    PuzzleSource
	transport Transport
	streaks   StreakTrackerInterface
	scores    ScoreStoreInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface

	duration time.Duration
	minBase  int
	maxBase  int
	allowed  map[string]struct{}
	intn     func(n int) int
	now      func() time.Time

	started atomic.Int64
	won     atomic.Int64
	expired atomic.Int64
	failed  atomic.Int64
	wg      sync.WaitGroup
}

func NewSessionService(conf *structures.Config, source PuzzleSource, transport Transport, streaks StreakTrackerInterface,
	scores ScoreStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) SessionServiceInterface {
	duration := conf.Game.RoundDuration
	if duration <= 0 {
		duration = DefaultRoundDuration
	}
	minBase, maxBase := conf.Game.MinBasePoints, conf.Game.MaxBasePoints
	if maxBase <= 0 || minBase > maxBase {
		minBase, maxBase = DefaultMinBasePoints, DefaultMaxBasePoints
	}

	var allowed map[string]struct{}
	if len(conf.Game.AllowedChats) > 0 {
		allowed = make(map[string]struct{}, len(conf.Game.AllowedChats))
		for _, ch := range conf.Game.AllowedChats {
			allowed[ch] = struct{}{}
		}
	}

	return &SessionService{
		registry:  NewSessionRegistry(),
		source:    source,
		transport: transport,
		streaks:   streaks,
		scores:    scores,
		logger:    logger,
		metrics:   metrics,
		duration:  duration,
		minBase:   minBase,
		maxBase:   maxBase,
		allowed:   allowed,
		intn:      rand.IntN,
		now:       time.Now,
	}
}

// Start claims the channel, draws a puzzle and runs the round in its own
// goroutine. ctx bounds the whole round. A channel that already has a round
// yields ErrAlreadyActive; puzzle sourcing errors release the channel and
// are returned as is.
func (ss *SessionService) Start(ctx context.Context, channelID, initiatorID string) (*Session, error) {
	if ss.allowed != nil {
		if _, ok := ss.allowed[channelID]; !ok {
			return nil, ErrChannelNotAllowed
		}
	}

	state := &models.SessionState{ChannelID: channelID, StartedBy: initiatorID}
	if !ss.registry.TryAcquire(state) {
		return nil, ErrAlreadyActive
	}

	puzzle, err := ss.source.PickPuzzle()
	if err != nil {
		ss.registry.Release(channelID)
		ss.logger.Warnf(providers.TypeGame, "Channel %s: cannot start round: %s", channelID, err)
		return nil, err
	}

	msgs, unsubscribe := ss.transport.Subscribe(channelID)
	sess := &Session{ChannelID: channelID, Puzzle: puzzle, done: make(chan struct{})}

	ss.started.Inc()
	ss.metrics.IncSessionsStarted()
	ss.metrics.SetActiveSessions(ss.registry.Len())

	ss.wg.Add(1)
	go ss.run(ctx, sess, msgs, unsubscribe)
	return sess, nil
}

func (ss *SessionService) run(ctx context.Context, sess *Session, msgs <-chan models.ChatMessage, unsubscribe func()) {
	defer ss.wg.Done()
	defer close(sess.done)
	defer func() {
		ss.registry.Release(sess.ChannelID)
		ss.metrics.SetActiveSessions(ss.registry.Len())
	}()
	defer unsubscribe()
	defer func() {
		if r := recover(); r != nil {
			sess.result, sess.err = nil, fmt.Errorf("round panicked: %v", r)
		}
		ss.finish(sess)
	}()

	sess.result, sess.err = ss.play(ctx, sess, msgs)
}

func (ss *SessionService) play(ctx context.Context, sess *Session, msgs <-chan models.ChatMessage) (*models.RoundResult, error) {
	handle, err := ss.transport.PublishPuzzle(ctx, sess.ChannelID, sess.Puzzle)
	if err != nil {
		return nil, fmt.Errorf("publish puzzle: %w", err)
	}

	deadline := ss.now().Add(ss.duration)
	ss.registry.Arm(sess.ChannelID, sess.Puzzle, deadline)
	ss.logger.Debugf(providers.TypeGame, "Channel %s: round on rank %d until %s", sess.ChannelID, sess.Puzzle.Rank, deadline.Format(time.RFC3339))

	winner, err := ss.collect(ctx, sess.Puzzle, msgs, deadline)
	if err != nil {
		return nil, err
	}

	var result *models.RoundResult
	if winner == nil {
		result = &models.RoundResult{
			Outcome:   models.OutcomeExpired,
			ChannelID: sess.ChannelID,
			Puzzle:    sess.Puzzle,
		}
	} else {
		result, err = ss.resolveWin(sess.ChannelID, sess.Puzzle, winner)
		if err != nil {
			return nil, err
		}
	}

	if err := ss.transport.Reply(ctx, handle, result); err != nil {
		ss.logger.Warnf(providers.TypeGame, "Channel %s: reply failed: %s", sess.ChannelID, err)
	}
	return result, nil
}

// collect returns the first accepted guess, or nil once the deadline passes.
func (ss *SessionService) collect(ctx context.Context, puzzle models.Puzzle, msgs <-chan models.ChatMessage, deadline time.Time) (*models.ChatMessage, error) {
	waitCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	for {
		select {
		case <-waitCtx.Done():
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return ss.drain(puzzle, msgs, deadline), nil
		case msg, ok := <-msgs:
			if !ok {
				return nil, ErrTransportClosed
			}
			if ss.accepts(msg, puzzle, deadline) {
				return &msg, nil
			}
		}
	}
}

// drain checks guesses that were sent in time but still sit in the buffer
// when the deadline fires.
func (ss *SessionService) drain(puzzle models.Puzzle, msgs <-chan models.ChatMessage, deadline time.Time) *models.ChatMessage {
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if msg.SentAt.IsZero() {
				continue
			}
			if ss.accepts(msg, puzzle, deadline) {
				return &msg
			}
		default:
			return nil
		}
	}
}

func (ss *SessionService) accepts(msg models.ChatMessage, puzzle models.Puzzle, deadline time.Time) bool {
	if msg.FromBot || msg.AuthorID == "" {
		return false
	}
	if !msg.SentAt.IsZero() && msg.SentAt.After(deadline) {
		return false
	}
	ss.metrics.IncGuesses()
	return matcher.IsMatch(msg.Text, puzzle.SecretName)
}

func (ss *SessionService) resolveWin(channelID string, puzzle models.Puzzle, winner *models.ChatMessage) (*models.RoundResult, error) {
	streak := ss.streaks.Peek(channelID, winner.AuthorID)
	base := ss.minBase + ss.intn(ss.maxBase-ss.minBase+1)
	points := FinalPoints(base, streak.StreakCount)
	display := streak.StreakCount + 1

	stats, err := ss.scores.Update(winner.AuthorID, func(st *models.ParticipantStats) error {
		applyScore(st, points, 1, display)
		if winner.AuthorName != "" {
			st.Name = winner.AuthorName
		}
		st.Collection.Add(puzzle.Rank)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("award %s: %w", winner.AuthorID, err)
	}
	ss.streaks.Commit(channelID, streak)

	ss.metrics.AddPointsAwarded(points)
	ss.logger.Infof(providers.TypeGame, "Channel %s: %s won %d points (base %d, streak %d)", channelID, winner.AuthorID, points, base, display)

	return &models.RoundResult{
		Outcome:          models.OutcomeWon,
		ChannelID:        channelID,
		Puzzle:           puzzle,
		WinnerID:         winner.AuthorID,
		WinnerName:       winner.AuthorName,
		WinningMessageID: winner.MessageID,
		BasePoints:       base,
		Points:           points,
		Multiplier:       Multiplier(streak.StreakCount),
		StreakIndex:      streak.StreakCount,
		DisplayStreak:    display,
		Stats:            stats,
	}, nil
}

func (ss *SessionService) finish(sess *Session) {
	switch {
	case sess.err != nil:
		ss.failed.Inc()
		ss.metrics.IncSessionsFinished("error")
		ss.logger.Errorf(providers.TypeGame, "Channel %s: round failed: %s", sess.ChannelID, sess.err)
	case sess.result.Outcome == models.OutcomeWon:
		ss.won.Inc()
		ss.metrics.IncSessionsFinished(string(models.OutcomeWon))
	default:
		ss.expired.Inc()
		ss.metrics.IncSessionsFinished(string(models.OutcomeExpired))
		ss.logger.Infof(providers.TypeGame, "Channel %s: time is up, answer was %q", sess.ChannelID, sess.Puzzle.SecretName)
	}
}

func (ss *SessionService) IsActive(channelID string) bool {
	_, ok := ss.registry.Get(channelID)
	return ok
}

func (ss *SessionService) ActiveChannels() []string {
	return ss.registry.Channels()
}

func (ss *SessionService) Stats() SessionStats {
	return SessionStats{
		Started: ss.started.Load(),
		Won:     ss.won.Load(),
		Expired: ss.expired.Load(),
		Failed:  ss.failed.Load(),
		Active:  ss.registry.Len(),
	}
}

// Wait blocks until every running round has finished.
func (ss *SessionService) Wait() {
	ss.wg.Wait()
}

func applyScore(st *models.ParticipantStats, pointsWon, winsWon, currentStreakDisplay int) {
	st.Points += pointsWon
	st.Wins += winsWon
	if currentStreakDisplay > st.HighestStreak {
		st.HighestStreak = currentStreakDisplay
	}
}
