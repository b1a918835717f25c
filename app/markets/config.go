package markets

import (
	"github.com/joefazee/wagerbook/models"
	"github.com/shopspring/decimal"
)

// Config represents the configuration for the markets module. Odds settings
// are plain floats so cleanenv reads them as leaf values; the odds engine
// converts them to decimals once.
type Config struct {
	// MaxWager of 0 means no upper limit beyond the caller's balance.
	MinWager int64 `env:"MIN_WAGER" env-default:"1" yaml:"min_wager"`
	MaxWager int64 `env:"MAX_WAGER" env-default:"0" yaml:"max_wager"`

	Overround float64 `env:"ODDS_OVERROUND" env-default:"0.95" yaml:"odds_overround"`
	MinOdds   float64 `env:"ODDS_MIN" env-default:"1.01" yaml:"odds_min"`
	MaxOdds   float64 `env:"ODDS_MAX" env-default:"50" yaml:"odds_max"`

	MaxQuestionLength int `env:"MAX_QUESTION_LENGTH" env-default:"300" yaml:"max_question_length"`
	MaxOptionLength   int `env:"MAX_OPTION_LENGTH" env-default:"80" yaml:"max_option_length"`
}

// Validate validates the market configuration
func (c *Config) Validate() error {
	if c.MinWager <= 0 || (c.MaxWager != 0 && c.MaxWager < c.MinWager) {
		return models.ErrInvalidWagerLimits
	}

	if c.Overround <= 0 || c.Overround > 1 {
		return models.ErrInvalidOverround
	}

	if c.MinOdds < 1 || c.MaxOdds <= c.MinOdds {
		return models.ErrInvalidOddsBounds
	}

	if c.MaxQuestionLength <= 0 || c.MaxOptionLength <= 0 {
		return models.ErrInvalidInput
	}

	return nil
}

func (c *Config) overround() decimal.Decimal { return decimal.NewFromFloat(c.Overround) }
func (c *Config) minOdds() decimal.Decimal   { return decimal.NewFromFloat(c.MinOdds) }
func (c *Config) maxOdds() decimal.Decimal   { return decimal.NewFromFloat(c.MaxOdds) }

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		MinWager:          1,
		MaxWager:          0,
		Overround:         0.95,
		MinOdds:           1.01,
		MaxOdds:           50,
		MaxQuestionLength: 300,
		MaxOptionLength:   80,
	}
}
