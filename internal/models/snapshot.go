package models

import "time"

// AnalyticsSnapshot is the stored form of one ClassificationResult.
// Grain: restaurant_id / menu_item_id / period_start / period_end. Rows are
// derived data and can always be rebuilt from order lines; writes replace
// whatever the key already holds.
//
// Monetary and index fields are decimal strings so the stored values survive
// round-trips without float drift.
type AnalyticsSnapshot struct {
	ID                   string    `json:"id"`
	RestaurantID         string    `json:"restaurant_id"`
	MenuItemID           string    `json:"menu_item_id"`
	ItemName             string    `json:"item_name"`
	PeriodStart          time.Time `json:"period_start"`
	PeriodEnd            time.Time `json:"period_end"`
	BCGQuadrant          string    `json:"bcg_quadrant"`
	MenuEngineeringClass string    `json:"menu_engineering_class"`
	PopularityIndex      string    `json:"popularity_index"`
	ProfitabilityIndex   string    `json:"profitability_index"`
	QuantitySold         int       `json:"quantity_sold"`
	OrderCount           int       `json:"order_count"`
	TotalRevenue         string    `json:"total_revenue"`
	Contribution         string    `json:"contribution"`
	GrossMarginPercent   string    `json:"gross_margin_percent"`
	ComputedAt           time.Time `json:"computed_at"`
}
