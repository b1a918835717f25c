package settlement

import "github.com/joefazee/wagerbook/models"

// ResolveRequest names the winning option indices
type ResolveRequest struct {
	WinningOptions []int `json:"winning_options" binding:"required,min=1"`
}

// PayoutResponse represents one bettor's outcome
type PayoutResponse struct {
	UserID      string `json:"user_id"`
	OptionIndex int    `json:"option_index"`
	Amount      int64  `json:"amount"`
	Winnings    int64  `json:"winnings"`
	Profit      int64  `json:"profit"`
	Won         bool   `json:"won"`
}

// SettlementResponse represents the outcome of a resolve or cancel
type SettlementResponse struct {
	MarketID       string           `json:"market_id"`
	Status         string           `json:"status"`
	WinningOptions []int            `json:"winning_options,omitempty"`
	TotalPaid      int64            `json:"total_paid"`
	Payouts        []PayoutResponse `json:"payouts"`
}

// StatusResponse represents the market status after a lock
type StatusResponse struct {
	MarketID  string `json:"market_id"`
	Status    string `json:"status"`
	TotalPool int64  `json:"total_pool"`
}

func ToSettlementResponse(r *Result) *SettlementResponse {
	if r == nil || r.Market == nil {
		return nil
	}
	payouts := make([]PayoutResponse, len(r.Payouts))
	for i, p := range r.Payouts {
		payouts[i] = PayoutResponse{
			UserID:      p.UserID,
			OptionIndex: p.OptionIndex,
			Amount:      p.Amount,
			Winnings:    p.Winnings,
			Profit:      p.Profit(),
			Won:         p.Won,
		}
	}
	return &SettlementResponse{
		MarketID:       r.Market.ID,
		Status:         string(r.Market.Status),
		WinningOptions: r.Market.WinningOptions,
		TotalPaid:      r.TotalPaid,
		Payouts:        payouts,
	}
}

func ToStatusResponse(m *models.Market) *StatusResponse {
	if m == nil {
		return nil
	}
	return &StatusResponse{MarketID: m.ID, Status: string(m.Status), TotalPool: m.TotalPool}
}
