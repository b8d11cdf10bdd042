package models

type LeaderboardEntry struct {
	Rank          int      `json:"rank"`
	ParticipantID string   `json:"id"`
	Name          string   `json:"name"`
	Points        int      `json:"points"`
	Wins          int      `json:"wins"`
	Badges        []string `json:"badges"`
}

type PageView struct {
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
	PageSize   int                `json:"page_size"`
	Total      int                `json:"total"`
	HasPrev    bool               `json:"has_prev"`
	HasNext    bool               `json:"has_next"`
	Entries    []LeaderboardEntry `json:"entries"`
}
