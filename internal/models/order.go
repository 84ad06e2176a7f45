package models

import "time"

// OrderLine is one sold line item. Lines with an empty MenuItemID cannot be
// attributed to a menu item and are skipped by the aggregator.
type OrderLine struct {
	OrderID      string    `json:"order_id"`
	RestaurantID string    `json:"restaurant_id"`
	MenuItemID   string    `json:"menu_item_id"`
	ItemName     string    `json:"item_name"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	UnitCost     float64   `json:"unit_cost"`
	PlacedAt     time.Time `json:"placed_at"`
}

// Revenue is the line total at sale price.
func (l OrderLine) Revenue() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

// CostTotal is the line total at ingredient cost.
func (l OrderLine) CostTotal() float64 {
	return float64(l.Quantity) * l.UnitCost
}
