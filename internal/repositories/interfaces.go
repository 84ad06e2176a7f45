package repositories

import (
	"context"
	"time"

	"github.com/plateworks/menumetrics/internal/models"
)

type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *models.Restaurant) error
	GetAll(ctx context.Context) ([]models.Restaurant, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type MenuItemRepository interface {
	BulkCreate(ctx context.Context, items []models.MenuItem) error
	BulkCreateCategories(ctx context.Context, categories []models.Category) error
	GetByRestaurantID(ctx context.Context, restaurantID string) ([]models.MenuItem, error)
	GetCategories(ctx context.Context, restaurantID string) ([]models.Category, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type OrderRepository interface {
	BulkCreateLines(ctx context.Context, lines []models.OrderLine) error
	GetLines(ctx context.Context, restaurantID string, from, to time.Time) ([]models.OrderLine, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type EventRepository interface {
	InsertEvents(ctx context.Context, events []models.MenuEvent) error
	GetEvents(ctx context.Context, restaurantID string, from, to time.Time) ([]models.MenuEvent, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type SnapshotRepository interface {
	UpsertBatch(ctx context.Context, snapshots []models.AnalyticsSnapshot) error
	GetByPeriod(ctx context.Context, restaurantID string, periodStart, periodEnd time.Time) ([]models.AnalyticsSnapshot, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
