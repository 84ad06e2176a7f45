package engine

import "math"

// DefaultElasticity is the assumed price elasticity of demand when the
// caller supplies none. Restaurant demand is mildly elastic.
const DefaultElasticity = -1.2

var defaultPriceChanges = []float64{-10, -5, 5, 10, 15}

type PriceSimulationInput struct {
	CurrentPrice     float64   `json:"current_price"`
	UnitCost         float64   `json:"unit_cost"`
	BaselineQuantity float64   `json:"baseline_quantity"`
	Elasticity       float64   `json:"elasticity,omitempty"`
	ChangesPercent   []float64 `json:"changes_percent,omitempty"`
}

type PriceScenario struct {
	ChangePercent         float64 `json:"change_percent"`
	NewPrice              float64 `json:"new_price"`
	ProjectedQuantity     float64 `json:"projected_quantity"`
	ProjectedRevenue      float64 `json:"projected_revenue"`
	ProjectedContribution float64 `json:"projected_contribution"`
	RevenueDelta          float64 `json:"revenue_delta"`
	ContributionDelta     float64 `json:"contribution_delta"`
}

// SimulatePriceChanges projects demand, revenue and contribution across a
// set of percentage price moves under a constant-elasticity model:
// quantity scales by (1 + elasticity * change/100), floored at zero.
func SimulatePriceChanges(in PriceSimulationInput) []PriceScenario {
	elasticity := in.Elasticity
	if elasticity == 0 {
		elasticity = DefaultElasticity
	}
	changes := in.ChangesPercent
	if len(changes) == 0 {
		changes = defaultPriceChanges
	}

	baselineRevenue := in.CurrentPrice * in.BaselineQuantity
	baselineContribution := (in.CurrentPrice - in.UnitCost) * in.BaselineQuantity

	scenarios := make([]PriceScenario, 0, len(changes))
	for _, pct := range changes {
		newPrice := in.CurrentPrice * (1 + pct/100)
		quantity := math.Max(0, in.BaselineQuantity*(1+elasticity*pct/100))
		revenue := newPrice * quantity
		contribution := (newPrice - in.UnitCost) * quantity

		scenarios = append(scenarios, PriceScenario{
			ChangePercent:         pct,
			NewPrice:              newPrice,
			ProjectedQuantity:     quantity,
			ProjectedRevenue:      revenue,
			ProjectedContribution: contribution,
			RevenueDelta:          revenue - baselineRevenue,
			ContributionDelta:     contribution - baselineContribution,
		})
	}

	return scenarios
}

// FloorPrice is the lowest price that still clears the target margin over
// ingredient cost. A 0.3 target on a 4.00 cost floors at 5.20.
func FloorPrice(unitCost, targetMargin float64) float64 {
	return unitCost * (1 + targetMargin)
}
