package scheduler

import (
	"time"

	// embedded zone database so Europe/Paris resolves on slim images
	_ "time/tzdata"

	"github.com/joefazee/wagerbook/models"
)

// Config represents the configuration for market timers
type Config struct {
	Timezone     string        `env:"SCHEDULER_TIMEZONE" env-default:"Europe/Paris" yaml:"timezone"`
	ReminderLead time.Duration `env:"SCHEDULER_REMINDER_LEAD" env-default:"1h" yaml:"reminder_lead"`
}

func (c *Config) Validate() error {
	if c.ReminderLead <= 0 {
		return models.ErrInvalidReminderLead
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return models.ErrInvalidTimezone
	}
	return nil
}

func GetDefaultConfig() *Config {
	return &Config{
		Timezone:     "Europe/Paris",
		ReminderLead: time.Hour,
	}
}

// Location returns the reference zone for closing tokens.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, models.ErrInvalidTimezone
	}
	return loc, nil
}
