package stats

import (
	"time"

	"github.com/joefazee/wagerbook/models"
)

type StatsResponse struct {
	UserID    string  `json:"user_id"`
	TotalBets int64   `json:"total_bets"`
	WonBets   int64   `json:"won_bets"`
	LostBets  int64   `json:"lost_bets"`
	WinRate   float64 `json:"win_rate"`
}

func ToStatsResponse(userID string, st models.UserStats) *StatsResponse {
	return &StatsResponse{
		UserID:    userID,
		TotalBets: st.TotalBets,
		WonBets:   st.WonBets,
		LostBets:  st.LostBets,
		WinRate:   st.WinRate(),
	}
}

type HistoryResponse struct {
	MarketID   string    `json:"market_id"`
	Question   string    `json:"question"`
	OptionName string    `json:"option_name"`
	Amount     int64     `json:"amount"`
	Winnings   int64     `json:"winnings"`
	Profit     int64     `json:"profit"`
	Result     string    `json:"result"`
	Timestamp  time.Time `json:"timestamp"`
}

func ToHistoryResponseList(entries []models.HistoryEntry) []HistoryResponse {
	out := make([]HistoryResponse, len(entries))
	for i := range entries {
		e := &entries[i]
		out[i] = HistoryResponse{
			MarketID:   e.MarketID,
			Question:   e.Question,
			OptionName: e.OptionName,
			Amount:     e.Amount,
			Winnings:   e.Winnings,
			Profit:     e.Profit(),
			Result:     string(e.Result),
			Timestamp:  e.Timestamp,
		}
	}
	return out
}
