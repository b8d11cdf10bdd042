package bot

import (
	"fmt"
	"guessd/internal/models"
	"guessd/internal/services"
	"sort"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackRetry       = "retry"
	callbackPagePrefix  = "lb:"
	currencyName        = "Creator Points"
	noLeaderboardData   = "No data yet."
	catalogEmptyText    = "Level data is empty. Check levels.json."
	noValidAssetText    = "Could not find a level with a valid local thumbnail."
	channelDisabledText = "Games are not enabled in this chat."
)

var medals = []string{"🥇", "🥈", "🥉"}

func RenderPuzzle(puzzle models.Puzzle) string {
	return fmt.Sprintf("Guess the Level!\nAuthor: %s", puzzle.Author)
}

func RenderResult(result *models.RoundResult) string {
	if result.Outcome != models.OutcomeWon {
		return fmt.Sprintf("Time is up!\nThe level was %s.", result.Puzzle.SecretName)
	}

	var b strings.Builder
	b.WriteString("Congratulations! You guessed the Level correctly!\n")
	fmt.Fprintf(&b, "You have been awarded %d %s, %s.\n", result.Points, currencyName, displayName(result.WinnerName, result.WinnerID))
	b.WriteString("This Level has been added to your Collection.\n\n")

	wins, total, best := 0, 0, result.DisplayStreak
	if result.Stats != nil {
		wins, total = result.Stats.Wins, result.Stats.Points
		best = max(result.Stats.HighestStreak, result.DisplayStreak)
	}
	if result.StreakIndex > 0 {
		fmt.Fprintf(&b, "🔥 Streak: %d (PB: %d) | ", result.DisplayStreak, best)
	}
	fmt.Fprintf(&b, "Total Wins: %d | Total Score: %d", wins, total)
	return b.String()
}

func RenderPage(view models.PageView) string {
	if len(view.Entries) == 0 {
		return "Top Completion\n\n" + noLeaderboardData
	}

	var b strings.Builder
	b.WriteString("Top Completion\n\n")
	for _, e := range view.Entries {
		medal := "🏅"
		if e.Rank <= len(medals) {
			medal = medals[e.Rank-1]
		}
		fmt.Fprintf(&b, "%d. %s %s | %d Points", e.Rank, medal, displayName(e.Name, e.ParticipantID), e.Points)
		if len(e.Badges) > 0 {
			b.WriteString(" 🎖")
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nPage %d/%d", view.Page+1, view.TotalPages)
	return b.String()
}

func RenderProfile(id string, stats *models.ParticipantStats, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Profile of %s\n\n", displayName(stats.Name, id))
	fmt.Fprintf(&b, "%s: %d\n", currencyName, stats.Points)
	fmt.Fprintf(&b, "Wins: %d\n", stats.Wins)
	fmt.Fprintf(&b, "Highest streak: %d\n", stats.HighestStreak)
	fmt.Fprintf(&b, "Collection: %d levels\n", stats.Collection.Len())
	if len(stats.Badges) > 0 {
		fmt.Fprintf(&b, "Badges: %s\n", strings.Join(stats.Badges, ", "))
	}

	var buffs []string
	for name, exp := range stats.Buffs {
		if exp.After(now) {
			buffs = append(buffs, fmt.Sprintf("%s (%s left)", name, humanDuration(exp.Sub(now))))
		}
	}
	if len(buffs) > 0 {
		sort.Strings(buffs)
		fmt.Fprintf(&b, "Active: %s\n", strings.Join(buffs, ", "))
	}

	var items []string
	for name, count := range stats.Inventory {
		if count > 0 {
			items = append(items, fmt.Sprintf("%s x%d", name, count))
		}
	}
	if len(items) > 0 {
		sort.Strings(items)
		fmt.Fprintf(&b, "Inventory: %s\n", strings.Join(items, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderShop(items []services.ShopItem) string {
	var b strings.Builder
	b.WriteString("Shop\n")
	for _, it := range items {
		fmt.Fprintf(&b, "\n/shop %s | %d %s\n%s\n", it.ID, it.Price, currencyName, it.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderPurchase(item services.ShopItem, stats *models.ParticipantStats) string {
	var detail string
	switch item.Kind {
	case services.ItemBuff:
		detail = fmt.Sprintf("Active for the next %d hours.", int(item.Duration.Hours()))
	case services.ItemConsumable:
		detail = fmt.Sprintf("You now have %d.", stats.Inventory[item.ID])
	case services.ItemBadge:
		detail = "The badge is now on your profile."
	}
	return fmt.Sprintf("You bought %s for %d %s.\n%s\n\nRemaining Balance: %d", item.ID, item.Price, currencyName, detail, stats.Points)
}

func RenderDaily(name string, stats *models.ParticipantStats) string {
	return fmt.Sprintf("Daily Reward!\nYou earned %d %s.\n\nClaimed by %s. Balance: %d", services.DailyReward, currencyName, displayName(name, ""), stats.Points)
}

func RenderCooldown(remaining time.Duration) string {
	return fmt.Sprintf("Already claimed!\nYou can claim another reward in %s.", humanDuration(remaining))
}

// humanDuration shows whole hours, or minutes when under an hour.
func humanDuration(d time.Duration) string {
	if h := int(d.Hours()); h > 0 {
		return fmt.Sprintf("%d hours", h)
	}
	return fmt.Sprintf("%d minutes", int(d.Minutes()))
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	if id == "" {
		return "someone"
	}
	return "User " + id
}

func retryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Start a new game", callbackRetry)),
	)
}

// pageKeyboard only carries the directions that lead somewhere.
func pageKeyboard(view models.PageView) *tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	if view.HasPrev {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Previous", callbackPagePrefix+strconv.Itoa(view.Page-1)))
	}
	if view.HasNext {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", callbackPagePrefix+strconv.Itoa(view.Page+1)))
	}
	if len(row) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(row)
	return &kb
}
