package services

import (
	"errors"
	"fmt"
	"guessd/internal/models"
	"guessd/internal/providers"
	"time"
)

const (
	DailyReward   = 25
	DailyCooldown = 24 * time.Hour
	ShopBadge     = "shop_badge"
)

var (
	ErrUnknownItem        = errors.New("unknown shop item")
	ErrInsufficientPoints = errors.New("not enough points")
)

// DailyCooldownError reports how long until the next daily claim. It
// matches ErrDailyCooldown under errors.Is.
type DailyCooldownError struct {
	Remaining time.Duration
}

var ErrDailyCooldown = &DailyCooldownError{}

func (e *DailyCooldownError) Error() string {
	return fmt.Sprintf("daily reward already claimed, next in %s", e.Remaining.Round(time.Minute))
}

func (e *DailyCooldownError) Is(target error) bool {
	_, ok := target.(*DailyCooldownError)
	return ok
}

type ItemKind int

const (
	ItemBuff ItemKind = iota
	ItemConsumable
	ItemBadge
)

type ShopItem struct {
	ID          string
	Price       int
	Kind        ItemKind
	Duration    time.Duration
	Description string
}

var shopItems = []ShopItem{
	{ID: "time", Price: 500, Kind: ItemBuff, Duration: 24 * time.Hour, Description: "Extra time for 24 hours"},
	{ID: "answer", Price: 2000, Kind: ItemConsumable, Description: "Reveal one answer"},
	{ID: "double", Price: 4000, Kind: ItemBuff, Duration: time.Hour, Description: "Double points for 1 hour"},
	{ID: "new", Price: 4000, Kind: ItemConsumable, Description: "Skip to a new puzzle"},
	{ID: "boost", Price: 6000, Kind: ItemBuff, Duration: 24 * time.Hour, Description: "Points boost for 24 hours"},
	{ID: "badge", Price: 100000, Kind: ItemBadge, Description: "Exclusive profile badge"},
}

func ShopItems() []ShopItem {
	return append([]ShopItem(nil), shopItems...)
}

func FindItem(id string) (ShopItem, bool) {
	for _, it := range shopItems {
		if it.ID == id {
			return it, true
		}
	}
	return ShopItem{}, false
}

type EconomyServiceInterface interface {
	ClaimDaily(participantID, name string, now time.Time) (*models.ParticipantStats, error)
	Buy(participantID, itemID string, now time.Time) (*models.ParticipantStats, error)
}

type EconomyService struct {
	scores ScoreStoreInterface
	logger providers.Logger
}

func NewEconomyService(scores ScoreStoreInterface, logger providers.Logger) EconomyServiceInterface {
	return &EconomyService{scores: scores, logger: logger}
}

func (es *EconomyService) ClaimDaily(participantID, name string, now time.Time) (*models.ParticipantStats, error) {
	stats, err := es.scores.Update(participantID, func(st *models.ParticipantStats) error {
		if !st.LastDaily.IsZero() {
			if next := st.LastDaily.Add(DailyCooldown); now.Before(next) {
				return &DailyCooldownError{Remaining: next.Sub(now)}
			}
		}
		st.Points += DailyReward
		st.LastDaily = models.NewUnixTime(now)
		if name != "" {
			st.Name = name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	es.logger.Infof(providers.TypeScore, "%s claimed the daily reward", participantID)
	return stats, nil
}

// Buy charges the item price and records its effect. Nothing changes when
// the participant cannot afford it.
func (es *EconomyService) Buy(participantID, itemID string, now time.Time) (*models.ParticipantStats, error) {
	item, ok := FindItem(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}

	stats, err := es.scores.Update(participantID, func(st *models.ParticipantStats) error {
		if st.Points < item.Price {
			return fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientPoints, item.ID, item.Price, st.Points)
		}
		st.Points -= item.Price
		switch item.Kind {
		case ItemBuff:
			st.Buffs[item.ID] = models.NewUnixTime(now.Add(item.Duration))
		case ItemConsumable:
			st.Inventory[item.ID]++
		case ItemBadge:
			st.AddBadge(ShopBadge)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	es.logger.Infof(providers.TypeScore, "%s bought %s for %d", participantID, item.ID, item.Price)
	return stats, nil
}
