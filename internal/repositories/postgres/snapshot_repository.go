package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plateworks/menumetrics/internal/models"
)

const maxUpsertRetries = 3

type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// UpsertBatch writes one snapshot row per classified item. Rows are keyed by
// (restaurant_id, menu_item_id, period_start, period_end) so re-running an
// analysis for the same window overwrites the previous figures instead of
// duplicating them.
func (r *SnapshotRepository) UpsertBatch(ctx context.Context, snapshots []models.AnalyticsSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	var lastErr error
	for attempt := 0; attempt < maxUpsertRetries; attempt++ {
		lastErr = r.upsertTx(ctx, snapshots)
		if lastErr == nil {
			return nil
		}
		if !isRetryableError(lastErr) {
			return lastErr
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 100 * time.Millisecond):
		}
	}
	return fmt.Errorf("upsert failed after %d attempts: %w", maxUpsertRetries, lastErr)
}

func (r *SnapshotRepository) upsertTx(ctx context.Context, snapshots []models.AnalyticsSnapshot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO analytics_snapshots (
            id, restaurant_id, menu_item_id, item_name, period_start, period_end,
            bcg_quadrant, menu_engineering_class, popularity_index, profitability_index,
            quantity_sold, order_count, total_revenue, contribution, gross_margin_percent,
            computed_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
        )
        ON CONFLICT (restaurant_id, menu_item_id, period_start, period_end) DO UPDATE SET
            item_name = EXCLUDED.item_name,
            bcg_quadrant = EXCLUDED.bcg_quadrant,
            menu_engineering_class = EXCLUDED.menu_engineering_class,
            popularity_index = EXCLUDED.popularity_index,
            profitability_index = EXCLUDED.profitability_index,
            quantity_sold = EXCLUDED.quantity_sold,
            order_count = EXCLUDED.order_count,
            total_revenue = EXCLUDED.total_revenue,
            contribution = EXCLUDED.contribution,
            gross_margin_percent = EXCLUDED.gross_margin_percent,
            computed_at = EXCLUDED.computed_at
    `
	for _, s := range snapshots {
		_, err := tx.Exec(ctx, query,
			s.ID,
			s.RestaurantID,
			s.MenuItemID,
			s.ItemName,
			s.PeriodStart,
			s.PeriodEnd,
			s.BCGQuadrant,
			s.MenuEngineeringClass,
			s.PopularityIndex,
			s.ProfitabilityIndex,
			s.QuantitySold,
			s.OrderCount,
			s.TotalRevenue,
			s.Contribution,
			s.GrossMarginPercent,
			s.ComputedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert snapshot for item %s: %w", s.MenuItemID, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *SnapshotRepository) GetByPeriod(ctx context.Context, restaurantID string, periodStart, periodEnd time.Time) ([]models.AnalyticsSnapshot, error) {
	query := `
        SELECT id, restaurant_id, menu_item_id, item_name, period_start, period_end,
               bcg_quadrant, menu_engineering_class,
               popularity_index::text, profitability_index::text,
               quantity_sold, order_count,
               total_revenue::text, contribution::text, gross_margin_percent::text,
               computed_at
        FROM analytics_snapshots
        WHERE restaurant_id = $1 AND period_start = $2 AND period_end = $3
        ORDER BY total_revenue DESC
    `
	rows, err := r.pool.Query(ctx, query, restaurantID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.AnalyticsSnapshot
	for rows.Next() {
		var s models.AnalyticsSnapshot
		err := rows.Scan(
			&s.ID,
			&s.RestaurantID,
			&s.MenuItemID,
			&s.ItemName,
			&s.PeriodStart,
			&s.PeriodEnd,
			&s.BCGQuadrant,
			&s.MenuEngineeringClass,
			&s.PopularityIndex,
			&s.ProfitabilityIndex,
			&s.QuantitySold,
			&s.OrderCount,
			&s.TotalRevenue,
			&s.Contribution,
			&s.GrossMarginPercent,
			&s.ComputedAt,
		)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func (r *SnapshotRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM analytics_snapshots").Scan(&count)
	return count, err
}

func (r *SnapshotRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE analytics_snapshots")
	return err
}

// isRetryableError reports whether the error is a transient serialization or
// lock failure worth retrying.
func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
	}
	return false
}
