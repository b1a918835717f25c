package settlement

import "github.com/joefazee/wagerbook/models"

// Payout is what one bettor received from a settlement.
type Payout struct {
	UserID      string `json:"user_id"`
	OptionIndex int    `json:"option_index"`
	Amount      int64  `json:"amount"`
	Winnings    int64  `json:"winnings"`
	Won         bool   `json:"won"`
}

// Profit is winnings minus stake. A refund nets zero.
func (p Payout) Profit() int64 {
	return p.Winnings - p.Amount
}

// Result summarizes a resolve or cancel.
type Result struct {
	Market    *models.Market `json:"market"`
	Payouts   []Payout       `json:"payouts"`
	TotalPaid int64          `json:"total_paid"`
}

// Winners returns the payouts of winning wagers only.
func (r *Result) Winners() []Payout {
	var out []Payout
	for _, p := range r.Payouts {
		if p.Won {
			out = append(out, p)
		}
	}
	return out
}
