package models

import "time"

// MenuEvent is a single interaction captured on a published menu, tagged
// with the layout variant the session was served. Events without a variant
// tag cannot be attributed to an experiment arm and are skipped by the
// aggregator.
type MenuEvent struct {
	ID           string            `json:"id"`
	RestaurantID string            `json:"restaurant_id"`
	SessionID    string            `json:"session_id"`
	EventType    string            `json:"event_type"`
	Variant      string            `json:"variant"`
	MenuItemID   string            `json:"menu_item_id,omitempty"`
	OrderValue   float64           `json:"order_value,omitempty"` // set on checkout_completed
	OccurredAt   time.Time         `json:"occurred_at"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}
