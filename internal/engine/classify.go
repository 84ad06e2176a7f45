package engine

import (
	"sort"
	"time"

	"github.com/plateworks/menumetrics/internal/models"
)

// Classify grades every menu item on the popularity/profitability grid.
//
// The two averages deliberately use different denominators: average quantity
// divides by the whole roster (unsold items drag it down), while average
// contribution divides only by items that sold at least once. Both index
// thresholds sit at 100 exactly, so an item matching the menu average on
// both axes grades as a star.
//
// Metrics for items no longer on the roster are ignored; the roster drives
// the result set, and items never sold participate with zero metrics.
// Results come back sorted by revenue, highest first.
func Classify(metrics []models.ItemMetrics, roster []models.MenuItem) []models.ClassificationResult {
	byItem := make(map[string]models.ItemMetrics, len(metrics))
	for _, m := range metrics {
		byItem[m.MenuItemID] = m
	}

	var totalQuantity int
	var totalContribution float64
	var soldCount int
	for _, item := range roster {
		m, ok := byItem[item.ID]
		if !ok {
			continue
		}
		totalQuantity += m.QuantitySold
		totalContribution += m.Contribution
		soldCount++
	}

	var avgQuantity, avgContribution float64
	if len(roster) > 0 {
		avgQuantity = float64(totalQuantity) / float64(len(roster))
	}
	if soldCount > 0 {
		avgContribution = totalContribution / float64(soldCount)
	}

	results := make([]models.ClassificationResult, 0, len(roster))
	for _, item := range roster {
		m := byItem[item.ID]

		var popularity, profitability float64
		if avgQuantity > 0 {
			popularity = float64(m.QuantitySold) / avgQuantity * 100
		}
		if avgContribution > 0 {
			profitability = m.Contribution / avgContribution * 100
		}

		var marginPercent float64
		if m.TotalRevenue > 0 {
			marginPercent = (m.TotalRevenue - m.TotalCost) / m.TotalRevenue * 100
		}

		highPopularity := popularity >= 100
		highProfitability := profitability >= 100
		quadrant := models.QuadrantFor(highPopularity, highProfitability)

		results = append(results, models.ClassificationResult{
			MenuItemID:           item.ID,
			ItemName:             item.Name,
			Quadrant:             quadrant,
			BCGQuadrant:          quadrant.BCGLabel(),
			MenuEngineeringClass: quadrant.MenuEngineeringLabel(),
			PopularityIndex:      popularity,
			ProfitabilityIndex:   profitability,
			QuantitySold:         m.QuantitySold,
			OrderCount:           m.OrderCount,
			TotalRevenue:         m.TotalRevenue,
			Contribution:         m.Contribution,
			GrossMarginPercent:   marginPercent,
			HighPopularity:       highPopularity,
			HighProfitability:    highProfitability,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalRevenue > results[j].TotalRevenue
	})

	return results
}

// Summarize rolls classified results into the dashboard summary: quadrant
// counts, revenue totals, the five best sellers and the five worst (worst
// first).
func Summarize(restaurantID string, periodStart, periodEnd time.Time, results []models.ClassificationResult) models.AnalyticsSummary {
	summary := models.AnalyticsSummary{
		RestaurantID: restaurantID,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		TotalItems:   len(results),
		Results:      results,
	}

	var marginSum float64
	for _, r := range results {
		summary.TotalRevenue += r.TotalRevenue
		if r.TotalRevenue > 0 {
			summary.ItemsWithSales++
			marginSum += r.GrossMarginPercent
		}
		switch r.Quadrant {
		case models.QuadrantStar:
			summary.Stars++
		case models.QuadrantVolume:
			summary.CashCows++
		case models.QuadrantMargin:
			summary.QuestionMarks++
		case models.QuadrantLow:
			summary.Dogs++
		}
	}
	if summary.ItemsWithSales > 0 {
		summary.AvgMarginPercent = marginSum / float64(summary.ItemsWithSales)
	}

	top := min(5, len(results))
	summary.TopPerformers = append([]models.ClassificationResult(nil), results[:top]...)

	bottom := min(5, len(results))
	summary.Underperformers = make([]models.ClassificationResult, 0, bottom)
	for i := len(results) - 1; i >= len(results)-bottom; i-- {
		summary.Underperformers = append(summary.Underperformers, results[i])
	}

	return summary
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
