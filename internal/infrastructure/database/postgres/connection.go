// Package postgres manages the PostgreSQL connection pool and schema
// migrations for LexDocket persistence.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/turtacn/LexDocket/internal/config"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/logging"
)

// Connection wraps the database pool together with its configuration.
type Connection struct {
	DB  *sql.DB
	cfg config.DatabaseConfig
	log logging.Logger
}

// NewConnection opens and verifies a pooled connection.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig, log logging.Logger) (*Connection, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	db, err := sql.Open("pgx", buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("database connected",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.Database))
	return &Connection{DB: db, cfg: cfg, log: log.Named("postgres")}, nil
}

func buildDSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.Database,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// RunMigrations applies all pending schema migrations from the configured
// migrations directory.
func (c *Connection) RunMigrations() error {
	driver, err := postgres.WithInstance(c.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+c.cfg.MigrationsPath, c.cfg.Database, driver)
	if err != nil {
		return fmt.Errorf("migration setup: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	c.log.Info("migrations applied", logging.String("path", c.cfg.MigrationsPath))
	return nil
}

// HealthCheck verifies connectivity and warns when the pool nears saturation.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	stats := c.DB.Stats()
	if c.cfg.MaxOpenConns > 0 && stats.InUse*10 >= c.cfg.MaxOpenConns*8 {
		c.log.Warn("connection pool nearing saturation",
			logging.Int("in_use", stats.InUse),
			logging.Int("max_open", c.cfg.MaxOpenConns))
	}
	return nil
}

// Close shuts the pool down.
func (c *Connection) Close() error {
	return c.DB.Close()
}
