package ledger

import "github.com/joefazee/wagerbook/models"

type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

func ToBalanceResponse(acc models.UserAccount) *BalanceResponse {
	return &BalanceResponse{UserID: acc.UserID, Balance: acc.Balance}
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

func ToLeaderboard(accounts []models.UserAccount) []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(accounts))
	for i, a := range accounts {
		out[i] = LeaderboardEntry{Rank: i + 1, UserID: a.UserID, Balance: a.Balance}
	}
	return out
}
