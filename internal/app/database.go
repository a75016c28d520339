package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/newrelic/go-agent/v3/integrations/nrpq" // Registers "nrpostgres" driver
	"github.com/newrelic/go-agent/v3/newrelic"

	"taxiweb/internal/config"
)

const reconciliationSchema = `
CREATE TABLE IF NOT EXISTS payment_reconciliations (
	id                TEXT PRIMARY KEY,
	session_id        TEXT NOT NULL,
	user_id           TEXT NOT NULL DEFAULT '',
	user_email        TEXT NOT NULL DEFAULT '',
	payment_intent_id TEXT NOT NULL,
	payment_method_id TEXT NOT NULL DEFAULT '',
	amount            NUMERIC(10, 2) NOT NULL,
	currency          TEXT NOT NULL,
	from_address      TEXT NOT NULL DEFAULT '',
	to_address        TEXT NOT NULL DEFAULT '',
	booking_date      TEXT NOT NULL DEFAULT '',
	booking_time      TEXT NOT NULL DEFAULT '',
	failure_message   TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_payment_reconciliations_intent
	ON payment_reconciliations (payment_intent_id);
`

// NewDatabase opens the reconciliation ledger and makes sure its table exists.
// If nrApp is provided, it uses the New Relic instrumented driver for SQL tracing.
func NewDatabase(ctx context.Context, cfg config.DatabaseConfig, nrApp *newrelic.Application) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	driver := "postgres"
	if nrApp != nil {
		driver = "nrpostgres"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with %s: %w", driver, err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, reconciliationSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create reconciliation schema: %w", err)
	}

	return db, nil
}
