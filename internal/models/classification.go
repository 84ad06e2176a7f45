package models

import "time"

// Quadrant places a menu item on the popularity/profitability grid. The four
// values are internal; callers see them through the two label vocabularies
// below, which share boundaries and differ only in naming.
type Quadrant int

const (
	QuadrantStar   Quadrant = iota // high popularity, high profitability
	QuadrantVolume                 // high popularity, low profitability
	QuadrantMargin                 // low popularity, high profitability
	QuadrantLow                    // low popularity, low profitability
)

var bcgLabels = map[Quadrant]string{
	QuadrantStar:   "star",
	QuadrantVolume: "cash_cow",
	QuadrantMargin: "question_mark",
	QuadrantLow:    "dog",
}

var menuEngineeringLabels = map[Quadrant]string{
	QuadrantStar:   "star",
	QuadrantVolume: "plow_horse",
	QuadrantMargin: "puzzle",
	QuadrantLow:    "dog",
}

// BCGLabel renders the quadrant in portfolio-matrix vocabulary.
func (q Quadrant) BCGLabel() string { return bcgLabels[q] }

// MenuEngineeringLabel renders the quadrant in menu-engineering vocabulary.
func (q Quadrant) MenuEngineeringLabel() string { return menuEngineeringLabels[q] }

// QuadrantFor maps the two threshold outcomes onto a quadrant.
func QuadrantFor(highPopularity, highProfitability bool) Quadrant {
	switch {
	case highPopularity && highProfitability:
		return QuadrantStar
	case highPopularity:
		return QuadrantVolume
	case highProfitability:
		return QuadrantMargin
	default:
		return QuadrantLow
	}
}

type ClassificationResult struct {
	MenuItemID           string   `json:"menu_item_id"`
	ItemName             string   `json:"item_name"`
	Quadrant             Quadrant `json:"-"`
	BCGQuadrant          string   `json:"bcg_quadrant"`
	MenuEngineeringClass string   `json:"menu_engineering_class"`
	PopularityIndex      float64  `json:"popularity_index"`
	ProfitabilityIndex   float64  `json:"profitability_index"`
	QuantitySold         int      `json:"quantity_sold"`
	OrderCount           int      `json:"order_count"`
	TotalRevenue         float64  `json:"total_revenue"`
	Contribution         float64  `json:"contribution"`
	GrossMarginPercent   float64  `json:"gross_margin_percent"`
	HighPopularity       bool     `json:"high_popularity"`
	HighProfitability    bool     `json:"high_profitability"`
}

type AnalyticsSummary struct {
	RestaurantID     string                 `json:"restaurant_id"`
	PeriodStart      time.Time              `json:"period_start"`
	PeriodEnd        time.Time              `json:"period_end"`
	TotalRevenue     float64                `json:"total_revenue"`
	TotalItems       int                    `json:"total_items"`
	ItemsWithSales   int                    `json:"items_with_sales"`
	AvgMarginPercent float64                `json:"avg_margin_percent"`
	Stars            int                    `json:"stars"`
	CashCows         int                    `json:"cash_cows"`
	QuestionMarks    int                    `json:"question_marks"`
	Dogs             int                    `json:"dogs"`
	TopPerformers    []ClassificationResult `json:"top_performers"`
	Underperformers  []ClassificationResult `json:"underperformers"`
	Results          []ClassificationResult `json:"results"`
}
