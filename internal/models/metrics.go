package models

// ItemMetrics accumulates what one menu item sold over an analysis window.
type ItemMetrics struct {
	MenuItemID   string  `json:"menu_item_id"`
	ItemName     string  `json:"item_name"`
	OrderCount   int     `json:"order_count"` // distinct orders, not lines
	QuantitySold int     `json:"quantity_sold"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalCost    float64 `json:"total_cost"`
	Contribution float64 `json:"contribution"`
	AvgUnitPrice float64 `json:"avg_unit_price"`
}

// VariantMetrics is the funnel for one experiment arm.
type VariantMetrics struct {
	Variant           string  `json:"variant"`
	ViewCount         int     `json:"view_count"`
	UniqueVisitors    int     `json:"unique_visitors"`
	ItemClickCount    int     `json:"item_click_count"`
	AddToCartCount    int     `json:"add_to_cart_count"`
	CheckoutCount     int     `json:"checkout_count"` // checkouts started
	OrderCount        int     `json:"order_count"`    // checkouts completed
	TotalRevenue      float64 `json:"total_revenue"`
	ClickRate         float64 `json:"click_rate"`
	CartRate          float64 `json:"cart_rate"`
	ConversionRate    float64 `json:"conversion_rate"`
	AverageOrderValue float64 `json:"average_order_value"`
	RevenuePerVisitor float64 `json:"revenue_per_visitor"`
}

// SignificanceResult reports a two-proportion z-test over conversion rates.
type SignificanceResult struct {
	IsSignificant   bool    `json:"is_significant"`
	ConfidenceLevel float64 `json:"confidence_level"`
	Winner          string  `json:"winner"` // "a", "b" or "tie"
	LiftPercent     float64 `json:"lift_percent"`
	ZScore          float64 `json:"z_score"`
	RateA           float64 `json:"rate_a"`
	RateB           float64 `json:"rate_b"`
	SampleSizeA     int     `json:"sample_size_a"`
	SampleSizeB     int     `json:"sample_size_b"`
}

// VariantReport is the full A/B readout for one restaurant and window.
type VariantReport struct {
	RestaurantID string             `json:"restaurant_id"`
	A            VariantMetrics     `json:"a"`
	B            VariantMetrics     `json:"b"`
	Significance SignificanceResult `json:"significance"`
	SampleSize   int                `json:"sample_size"`
}
