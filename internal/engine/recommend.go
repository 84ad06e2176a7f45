package engine

import (
	"fmt"
	"sort"

	"github.com/plateworks/menumetrics/internal/models"
)

// Recommend turns a classified summary into a short action list: promote the
// best stars, retire the worst dogs, market the puzzles, rework the cash
// cows. Counts are capped at 3/3/2/2 and each impact line carries the item's
// actual numbers from the analysis window.
func Recommend(summary models.AnalyticsSummary) []models.Recommendation {
	recs := make([]models.Recommendation, 0, 10)

	promoted := 0
	for _, r := range summary.Results {
		if r.Quadrant != models.QuadrantStar || promoted == 3 {
			continue
		}
		promoted++
		recs = append(recs, models.Recommendation{
			Type:       models.RecommendationPromote,
			Priority:   models.PriorityHigh,
			MenuItemID: r.MenuItemID,
			ItemName:   r.ItemName,
			Message:    fmt.Sprintf("Give %s more prominent placement; it sells well and earns well.", r.ItemName),
			Impact:     fmt.Sprintf("%.2f revenue at %.1f%% gross margin over the period", r.TotalRevenue, r.GrossMarginPercent),
		})
	}

	removed := 0
	for i := len(summary.Results) - 1; i >= 0 && removed < 3; i-- {
		r := summary.Results[i]
		if r.Quadrant != models.QuadrantLow {
			continue
		}
		removed++
		recs = append(recs, models.Recommendation{
			Type:       models.RecommendationRemove,
			Priority:   models.PriorityMedium,
			MenuItemID: r.MenuItemID,
			ItemName:   r.ItemName,
			Message:    fmt.Sprintf("Consider retiring %s or reworking the recipe; it neither sells nor earns.", r.ItemName),
			Impact:     fmt.Sprintf("only %.2f revenue and %.2f contribution over the period", r.TotalRevenue, r.Contribution),
		})
	}

	var puzzles []models.ClassificationResult
	for _, r := range summary.Results {
		if r.Quadrant == models.QuadrantMargin {
			puzzles = append(puzzles, r)
		}
	}
	sort.SliceStable(puzzles, func(i, j int) bool {
		return puzzles[i].ProfitabilityIndex > puzzles[j].ProfitabilityIndex
	})
	for i := 0; i < len(puzzles) && i < 2; i++ {
		r := puzzles[i]
		recs = append(recs, models.Recommendation{
			Type:       models.RecommendationMarket,
			Priority:   models.PriorityMedium,
			MenuItemID: r.MenuItemID,
			ItemName:   r.ItemName,
			Message:    fmt.Sprintf("Push %s with a photo or a feature slot; it earns well but few guests order it.", r.ItemName),
			Impact:     fmt.Sprintf("profitability index %.0f on just %d orders", r.ProfitabilityIndex, r.OrderCount),
		})
	}

	optimized := 0
	for _, r := range summary.Results {
		if r.Quadrant != models.QuadrantVolume || optimized == 2 {
			continue
		}
		optimized++
		recs = append(recs, models.Recommendation{
			Type:       models.RecommendationOptimize,
			Priority:   models.PriorityLow,
			MenuItemID: r.MenuItemID,
			ItemName:   r.ItemName,
			Message:    fmt.Sprintf("Rework the cost or price of %s; it is popular but earns below the menu average.", r.ItemName),
			Impact:     fmt.Sprintf("%.2f revenue at %.1f%% gross margin; small margin gains compound at this volume", r.TotalRevenue, r.GrossMarginPercent),
		})
	}

	return recs
}
