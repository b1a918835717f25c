package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/joefazee/wagerbook/app/database"
	"github.com/joefazee/wagerbook/app/ledger"
	"github.com/joefazee/wagerbook/app/markets"
	"github.com/joefazee/wagerbook/app/notify"
	"github.com/joefazee/wagerbook/app/persistence"
	"github.com/joefazee/wagerbook/app/scheduler"
	"github.com/joefazee/wagerbook/app/stats"
	"github.com/joefazee/wagerbook/internal/nexus"
)

// SecurityConfig holds the PASETO settings used to authenticate callers.
type SecurityConfig struct {
	SymmetricKey  string        `env:"SECURITY_SYMMETRIC_KEY" yaml:"symmetric_key" validate:"required,len=32"`
	TokenDuration time.Duration `env:"SECURITY_TOKEN_DURATION" env-default:"24h" yaml:"token_duration"`
}

type Config struct {
	AppHost  string `env:"APP_HOST" env-default:"localhost" yaml:"host"`
	AppPort  string `env:"APP_PORT" env-default:"8080" yaml:"port"`
	Env      string `env:"APP_ENV" env-default:"development" yaml:"env" validate:"oneof=development staging production test"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info" yaml:"log_level"`

	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"shutdown_timeout"`

	DB          database.Config    `yaml:"db"`
	Security    SecurityConfig     `yaml:"security"`
	Markets     markets.Config     `yaml:"markets"`
	Ledger      ledger.Config      `yaml:"ledger"`
	Stats       stats.Config       `yaml:"stats"`
	Scheduler   scheduler.Config   `yaml:"scheduler"`
	Persistence persistence.Config `yaml:"persistence"`
	Notify      notify.Config      `yaml:"notify"`
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate runs the semantic checks of every module. Database credentials are
// only required when snapshots go to postgres.
func (c *Config) Validate() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"markets", c.Markets.Validate},
		{"ledger", c.Ledger.Validate},
		{"stats", c.Stats.Validate},
		{"scheduler", c.Scheduler.Validate},
		{"persistence", c.Persistence.Validate},
	}
	if c.Persistence.Backend == persistence.BackendPostgres {
		checks = append(checks, struct {
			name string
			fn   func() error
		}{"db", c.DB.Validate})
	}

	var errs []error
	for _, check := range checks {
		if err := check.fn(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", check.name, err))
		}
	}
	return errors.Join(errs...)
}

// LoadConfig loads the application configuration from environment variables
// and, when present, config.yaml in the working directory.
func LoadConfig(opts ...nexus.LoaderOption) (*Config, error) {
	c := &Config{}
	opts = append([]nexus.LoaderOption{nexus.WithDefaultFileName("config.yaml")}, opts...)
	err := nexus.NewLoader(opts...).Load(c)
	return c, err
}
