package bot

import (
	"context"
	"errors"
	"guessd/internal/catalog"
	"guessd/internal/models"
	"guessd/internal/providers"
	"guessd/internal/services"
	"guessd/internal/structures"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot reads telegram updates, runs commands and feeds plain chat messages
// to the rounds through the transport.
type Bot struct {
	conf        *structures.Config
	api         API
	transport   *Transport
	sessions    services.SessionServiceInterface
	leaderboard services.LeaderboardServiceInterface
	economy     services.EconomyServiceInterface
	logger      providers.Logger
	now         func() time.Time
}

func NewBot(conf *structures.Config, api API, transport *Transport, sessions services.SessionServiceInterface,
	leaderboard services.LeaderboardServiceInterface, economy services.EconomyServiceInterface, logger providers.Logger) *Bot {
	return &Bot{
		conf:        conf,
		api:         api,
		transport:   transport,
		sessions:    sessions,
		leaderboard: leaderboard,
		economy:     economy,
		logger:      logger,
		now:         time.Now,
	}
}

// Run polls for updates until ctx is cancelled. Rounds started from here
// live under ctx as well.
func (b *Bot) Run(ctx context.Context) {
	if !b.conf.Telegram.Enabled {
		return
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.conf.Telegram.PollTimeout
	updates := b.api.GetUpdatesChan(u)
	b.logger.Infof(providers.TypeBot, "Bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Infof(providers.TypeBot, "Bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	if !msg.IsCommand() {
		b.transport.Dispatch(b.chatMessage(msg))
		return
	}

	switch msg.Command() {
	case "start", "guess":
		b.startRound(ctx, chatID, msg.From)
	case "top", "leaderboard":
		b.sendPage(chatID, 0)
	case "daily":
		b.handleDaily(chatID, msg.From)
	case "shop":
		b.handleShop(chatID, msg.From, strings.TrimSpace(msg.CommandArguments()))
	case "profile":
		b.handleProfile(chatID, msg.From)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Warnf(providers.TypeBot, "Callback answer failed: %s", err)
	}
	if cb.Message == nil || cb.Message.Chat == nil || cb.From == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	switch {
	case cb.Data == callbackRetry:
		b.startRound(ctx, chatID, cb.From)
	case strings.HasPrefix(cb.Data, callbackPagePrefix):
		page, err := strconv.Atoi(strings.TrimPrefix(cb.Data, callbackPagePrefix))
		if err != nil {
			return
		}
		b.editPage(chatID, cb.Message.MessageID, page)
	}
}

func (b *Bot) startRound(ctx context.Context, chatID int64, from *tgbotapi.User) {
	channelID := chatKey(chatID)
	_, err := b.sessions.Start(ctx, channelID, userKey(from))
	switch {
	case err == nil:
		b.logger.Debugf(providers.TypeBot, "Chat %s: round started by %s", channelID, userKey(from))
	case errors.Is(err, services.ErrAlreadyActive):
		b.logger.Debugf(providers.TypeBot, "Chat %s: round already running", channelID)
	case errors.Is(err, services.ErrChannelNotAllowed):
		b.send(tgbotapi.NewMessage(chatID, channelDisabledText))
	case errors.Is(err, catalog.ErrCatalogEmpty):
		b.send(tgbotapi.NewMessage(chatID, catalogEmptyText))
	case errors.Is(err, catalog.ErrNoValidAsset):
		b.send(tgbotapi.NewMessage(chatID, noValidAssetText))
	default:
		b.logger.Errorf(providers.TypeBot, "Chat %s: cannot start round: %s", channelID, err)
	}
}

func (b *Bot) sendPage(chatID int64, page int) {
	view := b.leaderboard.Page(page)
	msg := tgbotapi.NewMessage(chatID, RenderPage(view))
	if kb := pageKeyboard(view); kb != nil {
		msg.ReplyMarkup = kb
	}
	b.send(msg)
}

func (b *Bot) editPage(chatID int64, messageID, page int) {
	view := b.leaderboard.Page(page)
	edit := tgbotapi.NewEditMessageText(chatID, messageID, RenderPage(view))
	edit.ReplyMarkup = pageKeyboard(view)
	b.send(edit)
}

func (b *Bot) handleDaily(chatID int64, from *tgbotapi.User) {
	name := userName(from)
	stats, err := b.economy.ClaimDaily(userKey(from), name, b.now())
	var cooldown *services.DailyCooldownError
	switch {
	case err == nil:
		b.send(tgbotapi.NewMessage(chatID, RenderDaily(name, stats)))
	case errors.As(err, &cooldown):
		b.send(tgbotapi.NewMessage(chatID, RenderCooldown(cooldown.Remaining)))
	default:
		b.logger.Errorf(providers.TypeBot, "Daily claim for %s failed: %s", userKey(from), err)
	}
}

func (b *Bot) handleShop(chatID int64, from *tgbotapi.User, itemID string) {
	if itemID == "" {
		b.send(tgbotapi.NewMessage(chatID, RenderShop(services.ShopItems())))
		return
	}

	itemID = strings.ToLower(itemID)
	stats, err := b.economy.Buy(userKey(from), itemID, b.now())
	switch {
	case err == nil:
		item, _ := services.FindItem(itemID)
		b.send(tgbotapi.NewMessage(chatID, RenderPurchase(item, stats)))
	case errors.Is(err, services.ErrUnknownItem):
		b.send(tgbotapi.NewMessage(chatID, itemID+" is not a valid shop item."))
	case errors.Is(err, services.ErrInsufficientPoints):
		item, _ := services.FindItem(itemID)
		b.send(tgbotapi.NewMessage(chatID, "Insufficient funds! You need "+strconv.Itoa(item.Price)+" "+currencyName+"."))
	default:
		b.logger.Errorf(providers.TypeBot, "Purchase of %s by %s failed: %s", itemID, userKey(from), err)
	}
}

func (b *Bot) handleProfile(chatID int64, from *tgbotapi.User) {
	id := userKey(from)
	stats, ok := b.leaderboard.Profile(id)
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "No games played yet. Try /guess."))
		return
	}
	if stats.Name == "" {
		stats.Name = userName(from)
	}
	b.send(tgbotapi.NewMessage(chatID, RenderProfile(id, stats, b.now())))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Warnf(providers.TypeBot, "Failed to send message: %s", err)
	}
}

func (b *Bot) chatMessage(msg *tgbotapi.Message) models.ChatMessage {
	return models.ChatMessage{
		ChannelID:  chatKey(msg.Chat.ID),
		MessageID:  strconv.Itoa(msg.MessageID),
		AuthorID:   userKey(msg.From),
		AuthorName: userName(msg.From),
		FromBot:    msg.From.IsBot || msg.From.ID == b.api.SelfID(),
		Text:       msg.Text,
		SentAt:     msg.Time(),
	}
}

func userKey(u *tgbotapi.User) string {
	return strconv.FormatInt(u.ID, 10)
}

func userName(u *tgbotapi.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.UserName
}
