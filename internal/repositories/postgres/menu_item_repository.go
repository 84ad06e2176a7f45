package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plateworks/menumetrics/internal/models"
)

type MenuItemRepository struct {
	pool *pgxpool.Pool
}

func NewMenuItemRepository(pool *pgxpool.Pool) *MenuItemRepository {
	return &MenuItemRepository{pool: pool}
}

func (r *MenuItemRepository) BulkCreate(ctx context.Context, items []models.MenuItem) error {
	if len(items) == 0 {
		return nil
	}

	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"menu_items"},
		[]string{"id", "restaurant_id", "category_id", "name", "description", "price", "cost", "available", "created_at"},
		pgx.CopyFromSlice(len(items), func(i int) ([]interface{}, error) {
			return []interface{}{
				items[i].ID,
				items[i].RestaurantID,
				items[i].CategoryID,
				items[i].Name,
				items[i].Description,
				items[i].Price,
				items[i].Cost,
				items[i].Available,
				items[i].CreatedAt,
			}, nil
		}),
	)
	return err
}

func (r *MenuItemRepository) BulkCreateCategories(ctx context.Context, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}

	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"categories"},
		[]string{"id", "restaurant_id", "name", "position"},
		pgx.CopyFromSlice(len(categories), func(i int) ([]interface{}, error) {
			return []interface{}{
				categories[i].ID,
				categories[i].RestaurantID,
				categories[i].Name,
				categories[i].Position,
			}, nil
		}),
	)
	return err
}

func (r *MenuItemRepository) GetByRestaurantID(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	query := `
        SELECT id, restaurant_id, category_id, name, description, price, cost, available, created_at
        FROM menu_items
        WHERE restaurant_id = $1
        ORDER BY name
    `
	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		err := rows.Scan(
			&item.ID,
			&item.RestaurantID,
			&item.CategoryID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.Cost,
			&item.Available,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *MenuItemRepository) GetCategories(ctx context.Context, restaurantID string) ([]models.Category, error) {
	query := `
        SELECT id, restaurant_id, name, position
        FROM categories
        WHERE restaurant_id = $1
        ORDER BY position
    `
	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		err := rows.Scan(
			&category.ID,
			&category.RestaurantID,
			&category.Name,
			&category.Position,
		)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *MenuItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM menu_items").Scan(&count)
	return count, err
}

func (r *MenuItemRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE menu_items CASCADE")
	return err
}
