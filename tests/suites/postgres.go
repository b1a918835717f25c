package suites

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/joefazee/wagerbook/app/database"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/lib/pq"
)

const postgresImage = "postgres:17.5-alpine3.21"

// PostgresContainer is a throwaway postgres started for one test suite.
type PostgresContainer struct {
	testcontainers.Container
	Config database.Config
}

func NewPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	const port = "5432/tcp"
	cfg := database.Config{
		User:     "wagerbook",
		Password: "wagerbook",
		Database: "wagerbook_test",
	}

	dbURL := func(host string, p nat.Port) string {
		c := cfg
		c.Host, c.Port = host, p.Port()
		return c.URL()
	}

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{port},
		Cmd:          []string{"postgres", "-c", "fsync=off"},
		Env: map[string]string{
			"POSTGRES_DB":       cfg.Database,
			"POSTGRES_PASSWORD": cfg.Password,
			"POSTGRES_USER":     cfg.User,
		},
		WaitingFor: wait.ForSQL(port, "postgres", dbURL).
			WithStartupTimeout(30 * time.Second).
			WithQuery("SELECT 1"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	cfg.Host, cfg.Port = host, mapped.Port()
	return &PostgresContainer{Container: container, Config: cfg}, nil
}

// RepositoryTestSuite owns one container per suite and empties every table
// between tests.
type RepositoryTestSuite struct {
	suite.Suite
	Container      *PostgresContainer
	DB             *gorm.DB
	SQLDB          *sql.DB
	AutoMigrate    bool
	MigrationsPath string
}

func (s *RepositoryTestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping postgres integration tests in short mode")
	}

	if s.MigrationsPath == "" {
		s.MigrationsPath = findMigrationsPath()
	}

	container, err := NewPostgresContainer(context.Background())
	s.Require().NoError(err)
	s.Container = container
	s.T().Cleanup(s.cleanup)

	s.connect()

	if s.AutoMigrate && s.MigrationsPath != "" {
		s.Require().NoError(database.Migrate(s.Container.Config.URL(), s.MigrationsPath))
	}
}

func (s *RepositoryTestSuite) connect() {
	sqlDB, err := sql.Open("postgres", s.Container.Config.URL())
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Require().NoError(sqlDB.PingContext(ctx))
	s.SQLDB = sqlDB

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	s.DB = gormDB
}

func findMigrationsPath() string {
	wd, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			p := filepath.Join(wd, "migrations")
			if _, err := os.Stat(p); err != nil {
				return ""
			}
			return p
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			return ""
		}
		wd = parent
	}
}

func (s *RepositoryTestSuite) BeforeTest(_, _ string) {
	if s.DB == nil {
		return
	}

	var tables []string
	s.DB.Raw(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_type = 'BASE TABLE'
		AND table_name <> 'schema_migrations'
	`).Scan(&tables)

	for _, table := range tables {
		s.DB.Exec(fmt.Sprintf(`DELETE FROM %q`, table))
	}
}

func (s *RepositoryTestSuite) cleanup() {
	if s.SQLDB != nil {
		_ = s.SQLDB.Close()
	}
	if s.Container != nil {
		_ = s.Container.Terminate(context.Background())
	}
}

func (s *RepositoryTestSuite) CountRecords(table string) int64 {
	var c int64
	s.DB.Table(table).Count(&c)
	return c
}

func (s *RepositoryTestSuite) TableExists(table string) bool {
	return s.DB.Migrator().HasTable(table)
}
