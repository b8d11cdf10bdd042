package bot

import (
	"context"
	"fmt"
	"guessd/internal/models"
	"guessd/internal/providers"
	"path/filepath"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/afero"
)

const subscriberBuffer = 64

// Transport posts puzzles and results to telegram chats and fans incoming
// chat messages out to the rounds listening on that chat.
type Transport struct {
	api    MessageSender
	fs     afero.Fs
	logger providers.Logger

	mu     sync.Mutex
	subs   map[string]map[int]chan models.ChatMessage
	nextID int
}

func NewTransport(api API, fs afero.Fs, logger providers.Logger) *Transport {
	return &Transport{
		api:    api,
		fs:     fs,
		logger: logger,
		subs:   make(map[string]map[int]chan models.ChatMessage),
	}
}

func (t *Transport) PublishPuzzle(_ context.Context, channelID string, puzzle models.Puzzle) (models.MessageHandle, error) {
	chatID, err := parseChatID(channelID)
	if err != nil {
		return models.MessageHandle{}, err
	}

	image, err := afero.ReadFile(t.fs, puzzle.AssetRef)
	if err != nil {
		return models.MessageHandle{}, fmt.Errorf("read asset %s: %w", puzzle.AssetRef, err)
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: filepath.Base(puzzle.AssetRef), Bytes: image})
	photo.Caption = RenderPuzzle(puzzle)
	sent, err := t.api.Send(photo)
	if err != nil {
		return models.MessageHandle{}, err
	}
	return models.MessageHandle{ChannelID: channelID, MessageID: strconv.Itoa(sent.MessageID)}, nil
}

// Reply answers the winning guess on a win and the puzzle post otherwise.
func (t *Transport) Reply(_ context.Context, handle models.MessageHandle, result *models.RoundResult) error {
	chatID, err := parseChatID(handle.ChannelID)
	if err != nil {
		return err
	}

	target := handle.MessageID
	if result.Outcome == models.OutcomeWon && result.WinningMessageID != "" {
		target = result.WinningMessageID
	}
	msg := tgbotapi.NewMessage(chatID, RenderResult(result))
	if id, err := strconv.Atoi(target); err == nil {
		msg.ReplyToMessageID = id
	}
	msg.ReplyMarkup = retryKeyboard()
	_, err = t.api.Send(msg)
	return err
}

func (t *Transport) Subscribe(channelID string) (<-chan models.ChatMessage, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	id := t.nextID
	ch := make(chan models.ChatMessage, subscriberBuffer)
	if t.subs[channelID] == nil {
		t.subs[channelID] = make(map[int]chan models.ChatMessage)
	}
	t.subs[channelID][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.subs[channelID], id)
			if len(t.subs[channelID]) == 0 {
				delete(t.subs, channelID)
			}
		})
	}
}

// Dispatch hands msg to every round listening on its chat. A subscriber
// whose buffer is full misses the message.
func (t *Transport) Dispatch(msg models.ChatMessage) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	delivered := 0
	for _, ch := range t.subs[msg.ChannelID] {
		select {
		case ch <- msg:
			delivered++
		default:
			t.logger.Warnf(providers.TypeBot, "Chat %s: dropped message from %s, subscriber is full", msg.ChannelID, msg.AuthorID)
		}
	}
	return delivered
}

func parseChatID(channelID string) (int64, error) {
	id, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat id %q: %w", channelID, err)
	}
	return id, nil
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
