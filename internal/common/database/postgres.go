// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"visa-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// VisaRulesTable is the table PostgresSource reads the catalog from.
const VisaRulesTable = "visa_rules"

// PostgresClient holds the pool used by the postgres catalog source.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a pool sized from cfg. sql.Open does not dial, so
// callers Ping before first use.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

// RequireTable fails when table is missing from the search path, which
// means migrations/001_visa_rules.sql has not been applied.
func (c *PostgresClient) RequireTable(ctx context.Context, table string) error {
	var found sql.NullString
	if err := c.DB.QueryRowContext(ctx, `SELECT to_regclass($1)::text`, table).Scan(&found); err != nil {
		return fmt.Errorf("lookup table %s: %w", table, err)
	}
	if !found.Valid {
		return fmt.Errorf("table %s does not exist; apply migrations first", table)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}
