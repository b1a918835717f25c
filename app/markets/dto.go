package markets

import (
	"encoding/json"
	"time"

	"github.com/joefazee/wagerbook/models"
	"github.com/shopspring/decimal"
)

// CreateMarketRequest represents the request to create a market
type CreateMarketRequest struct {
	// ID is caller supplied, usually the id of the announcement message.
	ID       string                `json:"id" binding:"required"`
	Question string                `json:"question" binding:"required"`
	Options  []CreateOptionRequest `json:"options" binding:"required,dive"`

	// CreatorID is taken from the bearer token on the HTTP route.
	CreatorID string `json:"-"`

	// ClosingTime wins over Closes when both are set.
	ClosingTime *time.Time `json:"closing_time,omitempty"`
	// Closes is a local "HHhMM" token such as "21h30".
	Closes string `json:"closes,omitempty"`
}

// CreateOptionRequest represents one option in a creation request
type CreateOptionRequest struct {
	Name string          `json:"name" binding:"required"`
	Odds decimal.Decimal `json:"odds"`
}

// PlaceWagerRequest represents the request to stake on one option
type PlaceWagerRequest struct {
	OptionIndex *int        `json:"option_index" binding:"required"`
	Amount      json.Number `json:"amount"`
}

// WholeAmount returns the stake, rejecting fractional or missing amounts.
func (r *PlaceWagerRequest) WholeAmount() (int64, error) {
	n, err := r.Amount.Int64()
	if err != nil {
		return 0, models.ErrInvalidAmount
	}
	return n, nil
}

// OptionResponse represents one option with its current display odds
type OptionResponse struct {
	Index       int             `json:"index"`
	Name        string          `json:"name"`
	FixedOdds   decimal.Decimal `json:"fixed_odds"`
	DynamicOdds decimal.Decimal `json:"dynamic_odds"`
	Pool        int64           `json:"pool"`
}

// MarketResponse represents a market in API responses
type MarketResponse struct {
	ID             string           `json:"id"`
	Question       string           `json:"question"`
	Status         string           `json:"status"`
	CreatorID      string           `json:"creator_id"`
	TotalPool      int64            `json:"total_pool"`
	Bettors        int              `json:"bettors"`
	Options        []OptionResponse `json:"options"`
	CreatedAt      time.Time        `json:"created_at"`
	ClosingTime    *time.Time       `json:"closing_time,omitempty"`
	WinningOptions []int            `json:"winning_options,omitempty"`
	ResolvedAt     *time.Time       `json:"resolved_at,omitempty"`
}

// WagerResponse represents a placed wager
type WagerResponse struct {
	ID              string          `json:"id"`
	MarketID        string          `json:"market_id"`
	UserID          string          `json:"user_id"`
	OptionIndex     int             `json:"option_index"`
	Amount          int64           `json:"amount"`
	OddsAtPlacement decimal.Decimal `json:"odds_at_placement"`
	PotentialPayout int64           `json:"potential_payout"`
	PlacedAt        time.Time       `json:"placed_at"`
}

// OddsResponse lists fixed and dynamic odds side by side
type OddsResponse struct {
	MarketID  string            `json:"market_id"`
	TotalPool int64             `json:"total_pool"`
	Fixed     []decimal.Decimal `json:"fixed"`
	Dynamic   []decimal.Decimal `json:"dynamic"`
}

// ToMarketResponse converts a market; dynamic may be nil.
func ToMarketResponse(m *models.Market, dynamic []decimal.Decimal) *MarketResponse {
	pools := m.OptionPools()
	opts := make([]OptionResponse, len(m.Options))
	for i, o := range m.Options {
		opts[i] = OptionResponse{Index: i, Name: o.Name, FixedOdds: o.FixedOdds, DynamicOdds: o.FixedOdds, Pool: pools[i]}
		if i < len(dynamic) {
			opts[i].DynamicOdds = dynamic[i]
		}
	}
	return &MarketResponse{
		ID:             m.ID,
		Question:       m.Question,
		Status:         string(m.Status),
		CreatorID:      m.CreatorID,
		TotalPool:      m.TotalPool,
		Bettors:        len(m.Bettors),
		Options:        opts,
		CreatedAt:      m.CreatedAt,
		ClosingTime:    m.ClosingTime,
		WinningOptions: m.WinningOptions,
		ResolvedAt:     m.ResolvedAt,
	}
}

func ToMarketResponseList(markets []*models.Market, engine OddsEngine) []MarketResponse {
	out := make([]MarketResponse, len(markets))
	for i, m := range markets {
		out[i] = *ToMarketResponse(m, engine.ComputeDynamicOdds(m))
	}
	return out
}

func ToWagerResponse(w *models.WagerRecord) *WagerResponse {
	return &WagerResponse{
		ID:              w.ID.String(),
		MarketID:        w.MarketID,
		UserID:          w.UserID,
		OptionIndex:     w.OptionIndex,
		Amount:          w.Amount,
		OddsAtPlacement: w.OddsAtPlacement,
		PotentialPayout: w.Winnings(),
		PlacedAt:        w.PlacedAt,
	}
}
