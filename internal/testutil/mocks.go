package testutil

import (
	"context"
	"errors"
	"guessd/internal/models"
	"guessd/internal/providers"
	"strconv"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface and keeps totals.
type MockMetrics struct {
	mu                sync.Mutex
	Requests          map[string]int
	CacheHits         int
	CacheMisses       int
	Persists          int
	SessionsStarted   int
	SessionsFinished  map[string]int
	PointsAwarded     int
	Guesses           int
	ActiveSessions    int
	ParticipantsTotal int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Requests: make(map[string]int), SessionsFinished: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[endpoint]++
}
func (m *MockMetrics) ObserveRequestDuration(string, time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persists++
}
func (m *MockMetrics) IncSessionsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsStarted++
}
func (m *MockMetrics) IncSessionsFinished(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsFinished[outcome]++
}
func (m *MockMetrics) AddPointsAwarded(points int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PointsAwarded += points
}
func (m *MockMetrics) IncGuesses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Guesses++
}
func (m *MockMetrics) SetActiveSessions(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActiveSessions = count
}
func (m *MockMetrics) SetParticipantsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ParticipantsTotal = count
}

func (m *MockMetrics) Finished(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SessionsFinished[outcome]
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

var ErrMockSave = errors.New("mock save failure")

// MockPersister implements services.ScorePersister in memory. Saved blobs
// are deep copies so tests can inspect exactly what was written.
type MockPersister struct {
	mu      sync.Mutex
	Data    models.Scores
	Saves   int
	FailOn  func(call int) bool
	LoadErr error
}

func NewMockPersister() *MockPersister {
	return &MockPersister{Data: make(models.Scores)}
}

func (m *MockPersister) Load() (models.Scores, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return cloneScores(m.Data), nil
}

func (m *MockPersister) Save(scores models.Scores) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.FailOn != nil && m.FailOn(m.Saves) {
		return ErrMockSave
	}
	m.Data = cloneScores(scores)
	return nil
}

func (m *MockPersister) Snapshot() models.Scores {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneScores(m.Data)
}

func cloneScores(in models.Scores) models.Scores {
	out := make(models.Scores, len(in))
	for id, st := range in {
		out[id] = st.Clone()
	}
	return out
}

// MockSource implements services.PuzzleSource.
type MockSource struct {
	Puzzle models.Puzzle
	Err    error
}

func (m *MockSource) PickPuzzle() (models.Puzzle, error) {
	return m.Puzzle, m.Err
}

// MockTransport implements services.Transport. Published announces every
// puzzle post so tests can send guesses once a round is armed.
type MockTransport struct {
	mu          sync.Mutex
	subs        map[string]chan models.ChatMessage
	Published   chan models.Puzzle
	Replies     []*models.RoundResult
	PublishErr  error
	ReplyErr    error
	nextMessage int
}

func NewMockTransport() *MockTransport {
	return &MockTransport{
		subs:      make(map[string]chan models.ChatMessage),
		Published: make(chan models.Puzzle, 16),
	}
}

func (m *MockTransport) PublishPuzzle(_ context.Context, channelID string, puzzle models.Puzzle) (models.MessageHandle, error) {
	m.mu.Lock()
	if m.PublishErr != nil {
		m.mu.Unlock()
		return models.MessageHandle{}, m.PublishErr
	}
	m.nextMessage++
	handle := models.MessageHandle{ChannelID: channelID, MessageID: strconv.Itoa(m.nextMessage)}
	m.mu.Unlock()

	m.Published <- puzzle
	return handle, nil
}

func (m *MockTransport) Subscribe(channelID string) (<-chan models.ChatMessage, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan models.ChatMessage, 64)
	m.subs[channelID] = ch
	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.subs[channelID] == ch {
			delete(m.subs, channelID)
		}
	}
}

// Send delivers msg to the channel's subscriber, if any.
func (m *MockTransport) Send(msg models.ChatMessage) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.subs[msg.ChannelID]
	if !ok {
		return false
	}
	ch <- msg
	return true
}

func (m *MockTransport) Reply(_ context.Context, _ models.MessageHandle, result *models.RoundResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Replies = append(m.Replies, result)
	return m.ReplyErr
}

func (m *MockTransport) ReplyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Replies)
}
