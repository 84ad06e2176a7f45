package engine

import (
	"math"
	"testing"
	"time"

	"github.com/plateworks/menumetrics/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateOrdersCountsDistinctOrders(t *testing.T) {
	placed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lines := []models.OrderLine{
		{OrderID: "o1", MenuItemID: "m1", ItemName: "Margherita", Quantity: 2, UnitPrice: 10, UnitCost: 3, PlacedAt: placed},
		{OrderID: "o1", MenuItemID: "m1", ItemName: "Margherita", Quantity: 1, UnitPrice: 10, UnitCost: 3, PlacedAt: placed},
		{OrderID: "o2", MenuItemID: "m1", ItemName: "Margherita", Quantity: 1, UnitPrice: 10, UnitCost: 3, PlacedAt: placed},
		{OrderID: "o2", MenuItemID: "m2", ItemName: "Tiramisu", Quantity: 1, UnitPrice: 6, UnitCost: 2, PlacedAt: placed},
	}

	metrics := AggregateOrders(lines)
	if len(metrics) != 2 {
		t.Fatalf("got %d metric rows, want 2", len(metrics))
	}

	m := metrics[0]
	if m.MenuItemID != "m1" {
		t.Fatalf("first row is %s, want m1 (first seen)", m.MenuItemID)
	}
	if m.OrderCount != 2 {
		t.Fatalf("got %d distinct orders, want 2", m.OrderCount)
	}
	if m.QuantitySold != 4 {
		t.Fatalf("got quantity %d, want 4", m.QuantitySold)
	}
	if !almostEqual(m.TotalRevenue, 40) {
		t.Fatalf("got revenue %.2f, want 40.00", m.TotalRevenue)
	}
	if !almostEqual(m.Contribution, 28) {
		t.Fatalf("got contribution %.2f, want 28.00", m.Contribution)
	}
	if !almostEqual(m.AvgUnitPrice, 10) {
		t.Fatalf("got avg unit price %.2f, want 10.00", m.AvgUnitPrice)
	}
}

func TestAggregateOrdersDropsUnattributedLines(t *testing.T) {
	lines := []models.OrderLine{
		{OrderID: "o1", MenuItemID: "", ItemName: "Mystery", Quantity: 5, UnitPrice: 100},
		{OrderID: "o2", MenuItemID: "m1", ItemName: "Margherita", Quantity: 1, UnitPrice: 10},
	}

	metrics := AggregateOrders(lines)
	if len(metrics) != 1 {
		t.Fatalf("got %d metric rows, want 1", len(metrics))
	}
	if metrics[0].MenuItemID != "m1" {
		t.Fatalf("got %s, want m1", metrics[0].MenuItemID)
	}
}

func TestAggregateOrdersEmptyInput(t *testing.T) {
	metrics := AggregateOrders(nil)
	if len(metrics) != 0 {
		t.Fatalf("got %d metric rows, want 0", len(metrics))
	}
}

func TestAggregateEventsBucketsFunnel(t *testing.T) {
	events := []models.MenuEvent{
		{Variant: "a", SessionID: "s1", EventType: models.EventMenuView},
		{Variant: "a", SessionID: "s1", EventType: models.EventItemClick},
		{Variant: "a", SessionID: "s1", EventType: models.EventAddToCart},
		{Variant: "a", SessionID: "s1", EventType: models.EventCheckoutStarted},
		{Variant: "a", SessionID: "s1", EventType: models.EventCheckoutCompleted, OrderValue: 42.5},
		{Variant: "a", SessionID: "s2", EventType: models.EventMenuView},
		{Variant: "b", SessionID: "s3", EventType: models.EventMenuView},
	}

	metrics := AggregateEvents(events)

	a := metrics["a"]
	if a.ViewCount != 2 {
		t.Fatalf("got %d views, want 2", a.ViewCount)
	}
	if a.UniqueVisitors != 2 {
		t.Fatalf("got %d unique visitors, want 2", a.UniqueVisitors)
	}
	if a.ItemClickCount != 1 || a.AddToCartCount != 1 || a.CheckoutCount != 1 || a.OrderCount != 1 {
		t.Fatalf("funnel counts wrong: %+v", a)
	}
	if !almostEqual(a.TotalRevenue, 42.5) {
		t.Fatalf("got revenue %.2f, want 42.50", a.TotalRevenue)
	}
	if !almostEqual(a.ConversionRate, 0.5) {
		t.Fatalf("got conversion rate %.2f, want 0.50", a.ConversionRate)
	}
	if !almostEqual(a.AverageOrderValue, 42.5) {
		t.Fatalf("got AOV %.2f, want 42.50", a.AverageOrderValue)
	}
	if !almostEqual(a.RevenuePerVisitor, 21.25) {
		t.Fatalf("got revenue per visitor %.2f, want 21.25", a.RevenuePerVisitor)
	}

	b := metrics["b"]
	if b.ViewCount != 1 || b.OrderCount != 0 {
		t.Fatalf("variant b counts wrong: %+v", b)
	}
	if b.ConversionRate != 0 || b.AverageOrderValue != 0 {
		t.Fatalf("zero-order variant must report zero rates: %+v", b)
	}
}

func TestAggregateEventsRevenueOnlyFromCompletedCheckouts(t *testing.T) {
	events := []models.MenuEvent{
		{Variant: "a", SessionID: "s1", EventType: models.EventMenuView, OrderValue: 99},
		{Variant: "a", SessionID: "s1", EventType: models.EventCheckoutStarted, OrderValue: 99},
		{Variant: "a", SessionID: "s1", EventType: models.EventCheckoutCompleted, OrderValue: 10},
	}

	a := AggregateEvents(events)["a"]
	if !almostEqual(a.TotalRevenue, 10) {
		t.Fatalf("got revenue %.2f, want 10.00", a.TotalRevenue)
	}
}

func TestAggregateEventsDropsUntaggedAndKeepsBothArms(t *testing.T) {
	events := []models.MenuEvent{
		{Variant: "", SessionID: "s1", EventType: models.EventMenuView},
	}

	metrics := AggregateEvents(events)
	a, okA := metrics["a"]
	b, okB := metrics["b"]
	if !okA || !okB {
		t.Fatalf("both arms must be present, got %v", metrics)
	}
	if a.ViewCount != 0 || b.ViewCount != 0 {
		t.Fatalf("untagged events must not count: a=%d b=%d", a.ViewCount, b.ViewCount)
	}
}
