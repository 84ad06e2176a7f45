// Package engine holds the analytics core: order and event aggregation,
// quadrant classification, A/B significance, layout strategies and
// recommendations. Everything here is pure computation; callers own I/O,
// clocks and time-window filtering.
package engine

import (
	"github.com/plateworks/menumetrics/internal/models"
)

// AggregateOrders rolls order lines up into per-item sales metrics. Lines
// without a menu item id are skipped. Each observed item appears exactly
// once, in first-seen order; an empty input yields an empty slice.
func AggregateOrders(lines []models.OrderLine) []models.ItemMetrics {
	metrics := make([]models.ItemMetrics, 0)
	index := make(map[string]int)
	orderSets := make(map[string]map[string]struct{})

	for _, line := range lines {
		if line.MenuItemID == "" {
			continue
		}

		i, ok := index[line.MenuItemID]
		if !ok {
			i = len(metrics)
			index[line.MenuItemID] = i
			metrics = append(metrics, models.ItemMetrics{
				MenuItemID: line.MenuItemID,
				ItemName:   line.ItemName,
			})
			orderSets[line.MenuItemID] = make(map[string]struct{})
		}

		m := &metrics[i]
		m.QuantitySold += line.Quantity
		m.TotalRevenue += line.Revenue()
		m.TotalCost += line.CostTotal()
		if m.ItemName == "" {
			m.ItemName = line.ItemName
		}
		if line.OrderID != "" {
			orderSets[line.MenuItemID][line.OrderID] = struct{}{}
		}
	}

	for i := range metrics {
		m := &metrics[i]
		m.OrderCount = len(orderSets[m.MenuItemID])
		m.Contribution = m.TotalRevenue - m.TotalCost
		if m.QuantitySold > 0 {
			m.AvgUnitPrice = m.TotalRevenue / float64(m.QuantitySold)
		}
	}

	return metrics
}

// AggregateEvents partitions tracking events by experiment variant and rolls
// each partition into a funnel. Events without a variant tag are skipped.
// The "a" and "b" keys are always present so callers never nil-check.
func AggregateEvents(events []models.MenuEvent) map[string]models.VariantMetrics {
	partitions := map[string]*models.VariantMetrics{
		models.VariantA: {Variant: models.VariantA},
		models.VariantB: {Variant: models.VariantB},
	}
	sessions := map[string]map[string]struct{}{
		models.VariantA: {},
		models.VariantB: {},
	}

	for _, ev := range events {
		if ev.Variant == "" {
			continue
		}
		v, ok := partitions[ev.Variant]
		if !ok {
			v = &models.VariantMetrics{Variant: ev.Variant}
			partitions[ev.Variant] = v
			sessions[ev.Variant] = make(map[string]struct{})
		}

		switch ev.EventType {
		case models.EventMenuView:
			v.ViewCount++
		case models.EventItemClick:
			v.ItemClickCount++
		case models.EventAddToCart:
			v.AddToCartCount++
		case models.EventCheckoutStarted:
			v.CheckoutCount++
		case models.EventCheckoutCompleted:
			v.OrderCount++
			v.TotalRevenue += ev.OrderValue
		}
		if ev.SessionID != "" {
			sessions[ev.Variant][ev.SessionID] = struct{}{}
		}
	}

	result := make(map[string]models.VariantMetrics, len(partitions))
	for variant, v := range partitions {
		v.UniqueVisitors = len(sessions[variant])
		deriveRates(v)
		result[variant] = *v
	}

	return result
}

func deriveRates(v *models.VariantMetrics) {
	if v.ViewCount > 0 {
		views := float64(v.ViewCount)
		v.ClickRate = float64(v.ItemClickCount) / views
		v.CartRate = float64(v.AddToCartCount) / views
		v.ConversionRate = float64(v.OrderCount) / views
	}
	if v.OrderCount > 0 {
		v.AverageOrderValue = v.TotalRevenue / float64(v.OrderCount)
	}
	if v.UniqueVisitors > 0 {
		v.RevenuePerVisitor = v.TotalRevenue / float64(v.UniqueVisitors)
	}
}
