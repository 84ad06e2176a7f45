package engine

import "testing"

func TestSimulatePriceChangesDefaults(t *testing.T) {
	scenarios := SimulatePriceChanges(PriceSimulationInput{
		CurrentPrice:     10,
		UnitCost:         4,
		BaselineQuantity: 100,
	})
	if len(scenarios) != 5 {
		t.Fatalf("got %d scenarios, want the 5 defaults", len(scenarios))
	}

	// +10% at elasticity -1.2: price 11, quantity 88
	var up PriceScenario
	for _, s := range scenarios {
		if s.ChangePercent == 10 {
			up = s
		}
	}
	if !almostEqual(up.NewPrice, 11) {
		t.Fatalf("got price %.2f, want 11.00", up.NewPrice)
	}
	if !almostEqual(up.ProjectedQuantity, 88) {
		t.Fatalf("got quantity %.2f, want 88.00", up.ProjectedQuantity)
	}
	if !almostEqual(up.ProjectedRevenue, 968) {
		t.Fatalf("got revenue %.2f, want 968.00", up.ProjectedRevenue)
	}
	if !almostEqual(up.RevenueDelta, -32) {
		t.Fatalf("got revenue delta %.2f, want -32.00", up.RevenueDelta)
	}
	// contribution rises even as revenue falls: 7 * 88 = 616 vs 600
	if !almostEqual(up.ContributionDelta, 16) {
		t.Fatalf("got contribution delta %.2f, want 16.00", up.ContributionDelta)
	}
}

func TestSimulatePriceChangesClampsQuantity(t *testing.T) {
	scenarios := SimulatePriceChanges(PriceSimulationInput{
		CurrentPrice:     10,
		BaselineQuantity: 100,
		Elasticity:       -3,
		ChangesPercent:   []float64{50},
	})
	if scenarios[0].ProjectedQuantity != 0 {
		t.Fatalf("got quantity %.2f, want 0 (clamped)", scenarios[0].ProjectedQuantity)
	}
	if scenarios[0].ProjectedRevenue != 0 {
		t.Fatalf("got revenue %.2f, want 0", scenarios[0].ProjectedRevenue)
	}
}

func TestFloorPrice(t *testing.T) {
	if got := FloorPrice(4, 0.3); !almostEqual(got, 5.2) {
		t.Fatalf("got %.2f, want 5.20", got)
	}
}
