package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plateworks/menumetrics/internal/models"
)

type RestaurantRepository struct {
	pool *pgxpool.Pool
}

func NewRestaurantRepository(pool *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{pool: pool}
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	query := `
        INSERT INTO restaurants (id, name, slug_name, cuisine, town, currency, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.pool.Exec(ctx, query,
		restaurant.ID,
		restaurant.Name,
		restaurant.SlugName,
		restaurant.Cuisine,
		restaurant.Town,
		restaurant.Currency,
		restaurant.CreatedAt,
	)
	return err
}

func (r *RestaurantRepository) GetAll(ctx context.Context) ([]models.Restaurant, error) {
	query := `SELECT id, name, slug_name, cuisine, town, currency, created_at FROM restaurants ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []models.Restaurant
	for rows.Next() {
		var restaurant models.Restaurant
		err := rows.Scan(
			&restaurant.ID,
			&restaurant.Name,
			&restaurant.SlugName,
			&restaurant.Cuisine,
			&restaurant.Town,
			&restaurant.Currency,
			&restaurant.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		restaurants = append(restaurants, restaurant)
	}
	return restaurants, rows.Err()
}

func (r *RestaurantRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM restaurants").Scan(&count)
	return count, err
}

func (r *RestaurantRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE restaurants CASCADE")
	return err
}
