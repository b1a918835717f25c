package markets

import (
	"github.com/joefazee/wagerbook/models"
	"github.com/shopspring/decimal"
)

// oddsEngine implements the OddsEngine interface
type oddsEngine struct {
	overround decimal.Decimal
	minOdds   decimal.Decimal
	maxOdds   decimal.Decimal
}

// NewOddsEngine creates a new odds engine
func NewOddsEngine(config *Config) OddsEngine {
	return &oddsEngine{
		overround: config.overround(),
		minOdds:   config.minOdds(),
		maxOdds:   config.maxOdds(),
	}
}

// ComputeDynamicOdds re-prices every option from the current stake distribution.
// An option nobody staked on keeps its fixed odds. The result is for display
// only; settlement always pays oddsAtPlacement.
func (oe *oddsEngine) ComputeDynamicOdds(m *models.Market) []decimal.Decimal {
	pools := m.OptionPools()
	total := decimal.NewFromInt(m.TotalPool)

	odds := make([]decimal.Decimal, len(m.Options))
	for i, opt := range m.Options {
		if pools[i] == 0 {
			odds[i] = opt.FixedOdds
			continue
		}
		raw := total.Div(decimal.NewFromInt(pools[i])).Mul(oe.overround)
		odds[i] = oe.clamp(raw)
	}
	return odds
}

func (oe *oddsEngine) clamp(v decimal.Decimal) decimal.Decimal {
	if v.LessThan(oe.minOdds) {
		return oe.minOdds
	}
	if v.GreaterThan(oe.maxOdds) {
		return oe.maxOdds
	}
	return v
}
