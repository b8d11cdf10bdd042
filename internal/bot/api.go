package bot

import (
	"errors"
	"fmt"
	"guessd/internal/providers"
	"guessd/internal/structures"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrDisabled = errors.New("telegram transport is disabled")

// MessageSender is the part of the bot API used to talk to chats.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type API interface {
	MessageSender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	SelfID() int64
}

type telegramAPI struct {
	*tgbotapi.BotAPI
}

func (a telegramAPI) SelfID() int64 {
	return a.Self.ID
}

// disabledAPI stands in when telegram is switched off so the rest of the
// graph can still be built and served over HTTP.
type disabledAPI struct{}

func (disabledAPI) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, ErrDisabled
}
func (disabledAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return nil, ErrDisabled
}
func (disabledAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}
func (disabledAPI) StopReceivingUpdates() {}
func (disabledAPI) SelfID() int64         { return 0 }

func NewAPIProvider(conf *structures.Config, logger providers.Logger) (API, error) {
	if !conf.Telegram.Enabled {
		logger.Infof(providers.TypeBot, "Telegram disabled")
		return disabledAPI{}, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(conf.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram login: %w", err)
	}
	botAPI.Debug = conf.Debug
	logger.Infof(providers.TypeBot, "Authorized on account %s", botAPI.Self.UserName)
	return telegramAPI{BotAPI: botAPI}, nil
}
