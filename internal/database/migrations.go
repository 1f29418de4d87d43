package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS products (
		product_code    VARCHAR(64) PRIMARY KEY,
		name            VARCHAR(255) NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		weight          NUMERIC NOT NULL DEFAULT 0,
		price           NUMERIC NOT NULL DEFAULT 0,
		quantity        NUMERIC NOT NULL DEFAULT 0,
		category        VARCHAR(128),
		is_raw_material BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_updated    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id              UUID PRIMARY KEY,
		product_code    VARCHAR(64) NOT NULL,
		movement_type   VARCHAR(32) NOT NULL,
		quantity_change NUMERIC NOT NULL,
		quantity_before NUMERIC NOT NULL,
		quantity_after  NUMERIC NOT NULL,
		reference_type  VARCHAR(32),
		reference_id    VARCHAR(128),
		notes           TEXT NOT NULL DEFAULT '',
		created_by      VARCHAR(128),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements (product_code, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS wip_batches (
		batch_number  VARCHAR(64) PRIMARY KEY,
		raw_materials JSONB NOT NULL DEFAULT '[]',
		output        JSONB NOT NULL DEFAULT '[]',
		status        VARCHAR(32) NOT NULL DEFAULT 'in_progress',
		start_date    TIMESTAMPTZ NOT NULL,
		end_date      TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id   VARCHAR(64) PRIMARY KEY,
		type       VARCHAR(16) NOT NULL CHECK (type IN ('sales', 'purchase')),
		party_id   VARCHAR(128) NOT NULL,
		products   JSONB NOT NULL DEFAULT '[]',
		status     VARCHAR(32) NOT NULL,
		date       TIMESTAMPTZ NOT NULL,
		notes      TEXT,
		bom        JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status)`,
	`CREATE TABLE IF NOT EXISTS parties (
		id         VARCHAR(128) NOT NULL,
		kind       VARCHAR(16) NOT NULL CHECK (kind IN ('customer', 'supplier')),
		name       VARCHAR(255) NOT NULL,
		email      VARCHAR(255),
		phone      VARCHAR(64),
		address    TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (kind, id)
	)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
