package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug_name TEXT NOT NULL,
		cuisine TEXT NOT NULL DEFAULT '',
		town TEXT NOT NULL DEFAULT '',
		currency TEXT NOT NULL DEFAULT 'USD',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		restaurant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		position INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id TEXT PRIMARY KEY,
		restaurant_id TEXT NOT NULL,
		category_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(12,2) NOT NULL,
		cost NUMERIC(12,2) NOT NULL DEFAULT 0,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_restaurant ON menu_items (restaurant_id)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		order_id TEXT NOT NULL,
		restaurant_id TEXT NOT NULL,
		menu_item_id TEXT NOT NULL DEFAULT '',
		item_name TEXT NOT NULL DEFAULT '',
		quantity INT NOT NULL,
		unit_price NUMERIC(12,2) NOT NULL,
		unit_cost NUMERIC(12,2) NOT NULL DEFAULT 0,
		placed_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_lines_restaurant_placed ON order_lines (restaurant_id, placed_at)`,
	`CREATE TABLE IF NOT EXISTS menu_events (
		id TEXT PRIMARY KEY,
		restaurant_id TEXT NOT NULL,
		session_id TEXT NOT NULL DEFAULT '',
		event_type TEXT NOT NULL,
		variant TEXT NOT NULL DEFAULT '',
		menu_item_id TEXT NOT NULL DEFAULT '',
		order_value NUMERIC(12,2) NOT NULL DEFAULT 0,
		occurred_at TIMESTAMPTZ NOT NULL,
		metadata JSONB
	)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_events_restaurant_occurred ON menu_events (restaurant_id, occurred_at)`,
	`CREATE TABLE IF NOT EXISTS analytics_snapshots (
		id TEXT PRIMARY KEY,
		restaurant_id TEXT NOT NULL,
		menu_item_id TEXT NOT NULL,
		item_name TEXT NOT NULL DEFAULT '',
		period_start TIMESTAMPTZ NOT NULL,
		period_end TIMESTAMPTZ NOT NULL,
		bcg_quadrant TEXT NOT NULL,
		menu_engineering_class TEXT NOT NULL,
		popularity_index NUMERIC(8,2) NOT NULL,
		profitability_index NUMERIC(8,2) NOT NULL,
		quantity_sold INT NOT NULL,
		order_count INT NOT NULL,
		total_revenue NUMERIC(12,2) NOT NULL,
		contribution NUMERIC(12,2) NOT NULL,
		gross_margin_percent NUMERIC(8,2) NOT NULL,
		computed_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_snapshots_grain
		ON analytics_snapshots (restaurant_id, menu_item_id, period_start, period_end)`,
}

// Migrate creates the schema when it does not exist yet. Statements are
// idempotent, so running it on every start is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
