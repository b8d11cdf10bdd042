package bot

import (
	"context"
	"guessd/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
)

// MockAPI is a mock of the telegram API surface.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	if msg, ok := args.Get(0).(tgbotapi.Message); ok {
		return msg, args.Error(1)
	}
	return tgbotapi.Message{}, args.Error(1)
}

func (m *MockAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	args := m.Called(c)
	return nil, args.Error(1)
}

func (m *MockAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	args := m.Called(config)
	return args.Get(0).(tgbotapi.UpdatesChannel)
}

func (m *MockAPI) StopReceivingUpdates() {
	m.Called()
}

func (m *MockAPI) SelfID() int64 {
	return 999
}

// MockSessions is a mock of services.SessionServiceInterface.
type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Start(ctx context.Context, channelID, initiatorID string) (*services.Session, error) {
	args := m.Called(ctx, channelID, initiatorID)
	if s, ok := args.Get(0).(*services.Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessions) IsActive(channelID string) bool {
	return m.Called(channelID).Bool(0)
}

func (m *MockSessions) ActiveChannels() []string {
	return m.Called().Get(0).([]string)
}

func (m *MockSessions) Stats() services.SessionStats {
	return m.Called().Get(0).(services.SessionStats)
}

func (m *MockSessions) Wait() {
	m.Called()
}
