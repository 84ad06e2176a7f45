package factories

import (
	"math/rand"
	"time"

	"github.com/lucsky/cuid"
	"github.com/plateworks/menumetrics/internal/models"
)

var hourWeights = map[int]float64{
	7: 0.3, 8: 0.5, 9: 0.4, 10: 0.4,
	11: 1.0, 12: 2.2, 13: 2.0, 14: 1.1, // lunch peak
	15: 0.5, 16: 0.5, 17: 0.9,
	18: 1.8, 19: 2.4, 20: 2.1, 21: 1.4, // dinner peak
	22: 0.8, 23: 0.4,
}

var weekdayWeights = map[time.Weekday]float64{
	time.Monday:    0.7,
	time.Tuesday:   0.8,
	time.Wednesday: 0.9,
	time.Thursday:  1.0,
	time.Friday:    1.45,
	time.Saturday:  1.6,
	time.Sunday:    1.2,
}

type SalesFactory struct {
	rng *rand.Rand
}

func NewSalesFactory(rng *rand.Rand) *SalesFactory {
	return &SalesFactory{rng: rng}
}

// GenerateOrderLines produces order history for the trailing window ending
// today. Item popularity is skewed so roughly a fifth of the menu sells
// heavily, most items sell steadily and the rest barely move, which gives
// the classifier a realistic spread to work with.
func (sf *SalesFactory) GenerateOrderLines(restaurantID string, items []models.MenuItem, days, ordersPerDay int) []models.OrderLine {
	if len(items) == 0 || days <= 0 || ordersPerDay <= 0 {
		return nil
	}

	weights := sf.itemWeights(items)
	end := time.Now().UTC().Truncate(24 * time.Hour)

	var lines []models.OrderLine
	for d := days - 1; d >= 0; d-- {
		day := end.AddDate(0, 0, -d)
		jitter := 0.85 + sf.rng.Float64()*0.3
		count := int(float64(ordersPerDay) * weekdayWeights[day.Weekday()] * jitter)
		for i := 0; i < count; i++ {
			lines = append(lines, sf.generateOrder(restaurantID, items, weights, day)...)
		}
	}

	return lines
}

func (sf *SalesFactory) generateOrder(restaurantID string, items []models.MenuItem, weights []float64, day time.Time) []models.OrderLine {
	orderID := cuid.New()
	placedAt := day.
		Add(time.Duration(pickHour(sf.rng)) * time.Hour).
		Add(time.Duration(sf.rng.Intn(60)) * time.Minute).
		Add(time.Duration(sf.rng.Intn(60)) * time.Second)

	lineCount := 1 + sf.rng.Intn(3)
	if lineCount > len(items) {
		lineCount = len(items)
	}

	seen := make(map[int]bool, lineCount)
	var lines []models.OrderLine
	for i := 0; i < lineCount; i++ {
		idx := pickWeighted(sf.rng, weights)
		if seen[idx] {
			continue
		}
		seen[idx] = true
		item := items[idx]
		lines = append(lines, models.OrderLine{
			OrderID:      orderID,
			RestaurantID: restaurantID,
			MenuItemID:   item.ID,
			ItemName:     item.Name,
			Quantity:     1 + sf.rng.Intn(3),
			UnitPrice:    item.Price,
			UnitCost:     item.Cost,
			PlacedAt:     placedAt,
		})
	}

	return lines
}

// itemWeights ranks the roster with a shuffled permutation: top fifth are
// crowd pullers, the middle band sells normally, the tail is slow movers.
func (sf *SalesFactory) itemWeights(items []models.MenuItem) []float64 {
	weights := make([]float64, len(items))
	perm := sf.rng.Perm(len(items))
	for rank, idx := range perm {
		switch {
		case rank <= len(items)/5:
			weights[idx] = 4 + sf.rng.Float64()*2
		case rank < (len(items)*3)/5:
			weights[idx] = 1 + sf.rng.Float64()
		default:
			weights[idx] = 0.15 + sf.rng.Float64()*0.3
		}
	}
	return weights
}

func pickHour(rng *rand.Rand) int {
	var total float64
	for hour := 0; hour < 24; hour++ {
		total += hourWeight(hour)
	}
	target := rng.Float64() * total
	for hour := 0; hour < 24; hour++ {
		target -= hourWeight(hour)
		if target <= 0 {
			return hour
		}
	}
	return 23
}

func hourWeight(hour int) float64 {
	if w, ok := hourWeights[hour]; ok {
		return w
	}
	return 0.05
}

func pickWeighted(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	target := rng.Float64() * total
	for i, w := range weights {
		target -= w
		if target <= 0 {
			return i
		}
	}
	return len(weights) - 1
}
