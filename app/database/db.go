package database

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joefazee/wagerbook/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gLogger "gorm.io/gorm/logger"

	// migration drivers and the sql driver used by golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

type Config struct {
	Host     string `env:"DB_HOST" yaml:"host"`
	Port     string `env:"DB_PORT" env-default:"5432" yaml:"port"`
	User     string `env:"DB_USER" yaml:"user"`
	Password string `env:"DB_PASSWORD" yaml:"password"`
	Database string `env:"DB_NAME" yaml:"name"`
	UseSSL   bool   `env:"DB_SSL_MODE" yaml:"ssl"`
	LogQuery bool   `env:"DB_LOG_QUERY" yaml:"log_query"`

	MigrationsPath string `env:"DB_MIGRATIONS_PATH" env-default:"migrations" yaml:"migrations_path"`
	MaxOpenConns   int    `env:"DB_MAX_OPEN_CONNS" env-default:"10" yaml:"max_open_conns"`
}

func (c *Config) Validate() error {
	if c.Host == "" ||
		c.Password == "" || c.Database == "" || c.User == "" {
		return models.ErrDatabaseCredentialNotConfigured
	}
	return nil
}

func (c *Config) sslMode() string {
	if c.UseSSL {
		return "require"
	}
	return "disable"
}

// DSN returns the key/value form gorm's postgres driver expects.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Database, c.Port, c.sslMode())
}

// URL returns the postgres:// form golang-migrate expects.
func (c *Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + c.sslMode(),
	}
	return u.String()
}

func New(c *Config) (*gorm.DB, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg := &gorm.Config{}
	if !c.LogQuery {
		cfg.Logger = gLogger.Discard
	}

	db, err := gorm.Open(postgres.Open(c.DSN()), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}

	maxOpen := c.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen / 2)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate applies every pending migration found under path. A database that
// is already current is not an error.
func Migrate(databaseURL, path string) error {
	if path == "" {
		return errors.New("migrations path not set")
	}

	m, err := migrate.New("file://"+path, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
