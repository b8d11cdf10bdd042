package services

import (
	"guessd/internal/models"
	"sort"
)

const DefaultPageSize = 10

// BuildPage slices sortedEntries into the page at pageIndex, clamping the
// index into range. An empty board is a single empty page with both
// navigation directions disabled.
func BuildPage(sortedEntries []models.LeaderboardEntry, pageIndex, pageSize int) models.PageView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(sortedEntries)
	totalPages := max((total+pageSize-1)/pageSize, 1)
	page := min(max(pageIndex, 0), totalPages-1)

	start := min(page*pageSize, total)
	end := min(start+pageSize, total)
	entries := make([]models.LeaderboardEntry, end-start)
	copy(entries, sortedEntries[start:end])

	return models.PageView{
		Page:       page,
		TotalPages: totalPages,
		PageSize:   pageSize,
		Total:      total,
		HasPrev:    page > 0,
		HasNext:    page < totalPages-1,
		Entries:    entries,
	}
}

type LeaderboardServiceInterface interface {
	Page(pageIndex int) models.PageView
	Profile(participantID string) (*models.ParticipantStats, bool)
}

type LeaderboardService struct {
	scores ScoreStoreInterface
}

func NewLeaderboardService(scores ScoreStoreInterface) LeaderboardServiceInterface {
	return &LeaderboardService{scores: scores}
}

// Page ranks every participant by points, highest first. Equal scores keep
// the order in which participants joined.
func (ls *LeaderboardService) Page(pageIndex int) models.PageView {
	return BuildPage(SortEntries(ls.scores.Entries()), pageIndex, DefaultPageSize)
}

func (ls *LeaderboardService) Profile(participantID string) (*models.ParticipantStats, bool) {
	return ls.scores.Get(participantID)
}

func SortEntries(records []ScoreEntry) []models.LeaderboardEntry {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Stats.Points > records[j].Stats.Points
	})
	out := make([]models.LeaderboardEntry, len(records))
	for i, r := range records {
		out[i] = models.LeaderboardEntry{
			Rank:          i + 1,
			ParticipantID: r.ParticipantID,
			Name:          r.Stats.Name,
			Points:        r.Stats.Points,
			Wins:          r.Stats.Wins,
			Badges:        r.Stats.Badges,
		}
	}
	return out
}
