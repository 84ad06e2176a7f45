package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plateworks/menumetrics/internal/models"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) BulkCreateLines(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"order_lines"},
		[]string{"order_id", "restaurant_id", "menu_item_id", "item_name", "quantity", "unit_price", "unit_cost", "placed_at"},
		pgx.CopyFromSlice(len(lines), func(i int) ([]interface{}, error) {
			return []interface{}{
				lines[i].OrderID,
				lines[i].RestaurantID,
				lines[i].MenuItemID,
				lines[i].ItemName,
				lines[i].Quantity,
				lines[i].UnitPrice,
				lines[i].UnitCost,
				lines[i].PlacedAt,
			}, nil
		}),
	)
	return err
}

func (r *OrderRepository) GetLines(ctx context.Context, restaurantID string, from, to time.Time) ([]models.OrderLine, error) {
	query := `
        SELECT order_id, restaurant_id, menu_item_id, item_name, quantity, unit_price, unit_cost, placed_at
        FROM order_lines
        WHERE restaurant_id = $1 AND placed_at >= $2 AND placed_at < $3
        ORDER BY placed_at
    `
	rows, err := r.pool.Query(ctx, query, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		var line models.OrderLine
		err := rows.Scan(
			&line.OrderID,
			&line.RestaurantID,
			&line.MenuItemID,
			&line.ItemName,
			&line.Quantity,
			&line.UnitPrice,
			&line.UnitCost,
			&line.PlacedAt,
		)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM order_lines").Scan(&count)
	return count, err
}

func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE order_lines CASCADE")
	return err
}
