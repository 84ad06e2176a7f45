package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plateworks/menumetrics/internal/models"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) InsertEvents(ctx context.Context, events []models.MenuEvent) error {
	if len(events) == 0 {
		return nil
	}

	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"menu_events"},
		[]string{"id", "restaurant_id", "session_id", "event_type", "variant", "menu_item_id", "order_value", "occurred_at", "metadata"},
		pgx.CopyFromSlice(len(events), func(i int) ([]interface{}, error) {
			ev := events[i]
			var metadata []byte
			if len(ev.Metadata) > 0 {
				var err error
				metadata, err = json.Marshal(ev.Metadata)
				if err != nil {
					return nil, fmt.Errorf("failed to marshal metadata for event %s: %w", ev.ID, err)
				}
			}
			return []interface{}{
				ev.ID,
				ev.RestaurantID,
				ev.SessionID,
				ev.EventType,
				ev.Variant,
				ev.MenuItemID,
				ev.OrderValue,
				ev.OccurredAt,
				metadata,
			}, nil
		}),
	)
	return err
}

func (r *EventRepository) GetEvents(ctx context.Context, restaurantID string, from, to time.Time) ([]models.MenuEvent, error) {
	query := `
        SELECT id, restaurant_id, session_id, event_type, variant, menu_item_id, order_value, occurred_at, metadata
        FROM menu_events
        WHERE restaurant_id = $1 AND occurred_at >= $2 AND occurred_at < $3
        ORDER BY occurred_at
    `
	rows, err := r.pool.Query(ctx, query, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.MenuEvent
	for rows.Next() {
		var ev models.MenuEvent
		var metadata []byte
		err := rows.Scan(
			&ev.ID,
			&ev.RestaurantID,
			&ev.SessionID,
			&ev.EventType,
			&ev.Variant,
			&ev.MenuItemID,
			&ev.OrderValue,
			&ev.OccurredAt,
			&metadata,
		)
		if err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &ev.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata for event %s: %w", ev.ID, err)
			}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *EventRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM menu_events").Scan(&count)
	return count, err
}

func (r *EventRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE menu_events CASCADE")
	return err
}
