package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/plateworks/menumetrics/internal/models"
	"github.com/plateworks/menumetrics/pkg/logger"
)

type fakeItemRepo struct {
	items      []models.MenuItem
	categories []models.Category
	itemsErr   error
}

func (f *fakeItemRepo) BulkCreate(ctx context.Context, items []models.MenuItem) error {
	f.items = append(f.items, items...)
	return nil
}

func (f *fakeItemRepo) BulkCreateCategories(ctx context.Context, categories []models.Category) error {
	f.categories = append(f.categories, categories...)
	return nil
}

func (f *fakeItemRepo) GetByRestaurantID(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	return f.items, f.itemsErr
}

func (f *fakeItemRepo) GetCategories(ctx context.Context, restaurantID string) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeItemRepo) Count(ctx context.Context) (int, error) { return len(f.items), nil }
func (f *fakeItemRepo) DeleteAll(ctx context.Context) error    { return nil }

type fakeOrderRepo struct {
	lines []models.OrderLine
	err   error
}

func (f *fakeOrderRepo) BulkCreateLines(ctx context.Context, lines []models.OrderLine) error {
	f.lines = append(f.lines, lines...)
	return nil
}

func (f *fakeOrderRepo) GetLines(ctx context.Context, restaurantID string, from, to time.Time) ([]models.OrderLine, error) {
	return f.lines, f.err
}

func (f *fakeOrderRepo) Count(ctx context.Context) (int, error) { return len(f.lines), nil }
func (f *fakeOrderRepo) DeleteAll(ctx context.Context) error    { return nil }

type fakeEventRepo struct {
	events []models.MenuEvent
	err    error
}

func (f *fakeEventRepo) InsertEvents(ctx context.Context, events []models.MenuEvent) error {
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeEventRepo) GetEvents(ctx context.Context, restaurantID string, from, to time.Time) ([]models.MenuEvent, error) {
	return f.events, f.err
}

func (f *fakeEventRepo) Count(ctx context.Context) (int, error) { return len(f.events), nil }
func (f *fakeEventRepo) DeleteAll(ctx context.Context) error    { return nil }

type fakeSnapshotRepo struct {
	upserted  []models.AnalyticsSnapshot
	upsertErr error
}

func (f *fakeSnapshotRepo) UpsertBatch(ctx context.Context, snapshots []models.AnalyticsSnapshot) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, snapshots...)
	return nil
}

func (f *fakeSnapshotRepo) GetByPeriod(ctx context.Context, restaurantID string, periodStart, periodEnd time.Time) ([]models.AnalyticsSnapshot, error) {
	return f.upserted, nil
}

func (f *fakeSnapshotRepo) Count(ctx context.Context) (int, error) { return len(f.upserted), nil }
func (f *fakeSnapshotRepo) DeleteAll(ctx context.Context) error    { return nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.LevelError, Format: "text", Output: "stderr"})
}

func testMenu() ([]models.MenuItem, []models.OrderLine) {
	placedAt := time.Now().UTC().Add(-24 * time.Hour)
	items := []models.MenuItem{
		{ID: "m1", RestaurantID: "rest_1", CategoryID: "c1", Name: "Margherita", Price: 20, Cost: 10, Available: true},
		{ID: "m2", RestaurantID: "rest_1", CategoryID: "c1", Name: "Truffle Pasta", Price: 50, Cost: 20, Available: true},
	}
	lines := []models.OrderLine{
		{OrderID: "o1", RestaurantID: "rest_1", MenuItemID: "m1", ItemName: "Margherita", Quantity: 20, UnitPrice: 20, UnitCost: 10, PlacedAt: placedAt},
		{OrderID: "o2", RestaurantID: "rest_1", MenuItemID: "m1", ItemName: "Margherita", Quantity: 10, UnitPrice: 20, UnitCost: 10, PlacedAt: placedAt},
		{OrderID: "o1", RestaurantID: "rest_1", MenuItemID: "m2", ItemName: "Truffle Pasta", Quantity: 10, UnitPrice: 50, UnitCost: 20, PlacedAt: placedAt},
	}
	return items, lines
}

func newTestAnalytics(items *fakeItemRepo, orders *fakeOrderRepo, events *fakeEventRepo, snaps *fakeSnapshotRepo) *AnalyticsService {
	return NewAnalyticsService(items, orders, events, snaps, testLogger())
}

func TestRunAnalysisComputesAndPersists(t *testing.T) {
	menu, lines := testMenu()
	snaps := &fakeSnapshotRepo{}
	svc := newTestAnalytics(&fakeItemRepo{items: menu}, &fakeOrderRepo{lines: lines}, &fakeEventRepo{}, snaps)

	result, err := svc.RunAnalysis(context.Background(), "rest_1", 30)
	if err != nil {
		t.Fatalf("RunAnalysis returned error: %v", err)
	}
	if result.SnapshotErr != nil {
		t.Fatalf("unexpected snapshot error: %v", result.SnapshotErr)
	}

	summary := result.Summary
	if summary.TotalItems != 2 || summary.ItemsWithSales != 2 {
		t.Fatalf("got %d items / %d with sales, want 2 / 2", summary.TotalItems, summary.ItemsWithSales)
	}
	if summary.TotalRevenue != 1100 {
		t.Fatalf("got total revenue %.2f, want 1100", summary.TotalRevenue)
	}
	if summary.Stars != 1 || summary.QuestionMarks != 1 {
		t.Fatalf("got %d stars / %d question marks, want 1 / 1", summary.Stars, summary.QuestionMarks)
	}

	if len(snaps.upserted) != 2 {
		t.Fatalf("got %d snapshot rows, want 2", len(snaps.upserted))
	}
	first := snaps.upserted[0]
	if first.MenuItemID != "m1" {
		t.Fatalf("got first snapshot for %s, want m1 (highest revenue)", first.MenuItemID)
	}
	if first.TotalRevenue != "600.00" || first.PopularityIndex != "150.00" {
		t.Fatalf("got revenue %s popularity %s, want 600.00 / 150.00", first.TotalRevenue, first.PopularityIndex)
	}
	if first.BCGQuadrant != "star" {
		t.Fatalf("got quadrant %s, want star", first.BCGQuadrant)
	}
	if first.ID == "" || first.ComputedAt.IsZero() {
		t.Fatal("snapshot identity fields not stamped")
	}
	if !first.PeriodStart.Equal(summary.PeriodStart) || !first.PeriodEnd.Equal(summary.PeriodEnd) {
		t.Fatal("snapshot window does not match summary window")
	}
}

func TestRunAnalysisSurvivesSnapshotFailure(t *testing.T) {
	menu, lines := testMenu()
	snaps := &fakeSnapshotRepo{upsertErr: errors.New("connection refused")}
	svc := newTestAnalytics(&fakeItemRepo{items: menu}, &fakeOrderRepo{lines: lines}, &fakeEventRepo{}, snaps)

	result, err := svc.RunAnalysis(context.Background(), "rest_1", 30)
	if err != nil {
		t.Fatalf("RunAnalysis returned error: %v", err)
	}
	if result.SnapshotErr == nil {
		t.Fatal("expected SnapshotErr to be set")
	}
	if result.Summary.TotalItems != 2 {
		t.Fatalf("summary discarded on snapshot failure: got %d items", result.Summary.TotalItems)
	}
}

func TestRunAnalysisPropagatesLoadErrors(t *testing.T) {
	svc := newTestAnalytics(&fakeItemRepo{itemsErr: errors.New("down")}, &fakeOrderRepo{}, &fakeEventRepo{}, &fakeSnapshotRepo{})
	if _, err := svc.RunAnalysis(context.Background(), "rest_1", 30); err == nil {
		t.Fatal("expected error when menu items cannot be loaded")
	}
}

func TestRecommendationsFromAnalysis(t *testing.T) {
	menu, lines := testMenu()
	svc := newTestAnalytics(&fakeItemRepo{items: menu}, &fakeOrderRepo{lines: lines}, &fakeEventRepo{}, &fakeSnapshotRepo{})

	recs, err := svc.Recommendations(context.Background(), "rest_1", 30)
	if err != nil {
		t.Fatalf("Recommendations returned error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].Type != models.RecommendationPromote || recs[0].ItemName != "Margherita" {
		t.Fatalf("got first rec %s/%s, want promote/Margherita", recs[0].Type, recs[0].ItemName)
	}
	if recs[1].Type != models.RecommendationMarket || recs[1].ItemName != "Truffle Pasta" {
		t.Fatalf("got second rec %s/%s, want market/Truffle Pasta", recs[1].Type, recs[1].ItemName)
	}
}

func TestVariantReport(t *testing.T) {
	occurredAt := time.Now().UTC().Add(-time.Hour)
	var events []models.MenuEvent
	addFunnel := func(variant string, views, orders int, orderValue float64) {
		for i := 0; i < views; i++ {
			events = append(events, models.MenuEvent{
				ID:           fmt.Sprintf("%s-view-%d", variant, i),
				RestaurantID: "rest_1",
				SessionID:    fmt.Sprintf("%s-session-%d", variant, i),
				EventType:    models.EventMenuView,
				Variant:      variant,
				OccurredAt:   occurredAt,
			})
		}
		for i := 0; i < orders; i++ {
			events = append(events, models.MenuEvent{
				ID:           fmt.Sprintf("%s-order-%d", variant, i),
				RestaurantID: "rest_1",
				SessionID:    fmt.Sprintf("%s-session-%d", variant, i),
				EventType:    models.EventCheckoutCompleted,
				Variant:      variant,
				OrderValue:   orderValue,
				OccurredAt:   occurredAt,
			})
		}
	}
	addFunnel("a", 40, 20, 25)
	addFunnel("b", 40, 4, 30)

	svc := newTestAnalytics(&fakeItemRepo{}, &fakeOrderRepo{}, &fakeEventRepo{events: events}, &fakeSnapshotRepo{})
	report, err := svc.VariantReport(context.Background(), "rest_1", 30)
	if err != nil {
		t.Fatalf("VariantReport returned error: %v", err)
	}

	if report.A.ViewCount != 40 || report.A.OrderCount != 20 {
		t.Fatalf("got variant a %d views / %d orders, want 40 / 20", report.A.ViewCount, report.A.OrderCount)
	}
	if report.A.TotalRevenue != 500 {
		t.Fatalf("got variant a revenue %.2f, want 500", report.A.TotalRevenue)
	}
	if report.SampleSize != 80 {
		t.Fatalf("got sample size %d, want 80", report.SampleSize)
	}
	if !report.Significance.IsSignificant || report.Significance.Winner != "a" {
		t.Fatalf("got significance %+v, want significant winner a", report.Significance)
	}
	if report.Significance.ConfidenceLevel != 99 {
		t.Fatalf("got confidence %.0f, want 99", report.Significance.ConfidenceLevel)
	}
}

func TestRelatedItemsThroughService(t *testing.T) {
	placedAt := time.Now().UTC().Add(-24 * time.Hour)
	lines := []models.OrderLine{
		{OrderID: "o1", MenuItemID: "m1", ItemName: "Burger", Quantity: 1, PlacedAt: placedAt},
		{OrderID: "o1", MenuItemID: "m2", ItemName: "Fries", Quantity: 1, PlacedAt: placedAt},
		{OrderID: "o2", MenuItemID: "m1", ItemName: "Burger", Quantity: 1, PlacedAt: placedAt},
		{OrderID: "o2", MenuItemID: "m2", ItemName: "Fries", Quantity: 1, PlacedAt: placedAt},
		{OrderID: "o3", MenuItemID: "m1", ItemName: "Burger", Quantity: 1, PlacedAt: placedAt},
		{OrderID: "o3", MenuItemID: "m3", ItemName: "Cola", Quantity: 1, PlacedAt: placedAt},
	}
	svc := newTestAnalytics(&fakeItemRepo{}, &fakeOrderRepo{lines: lines}, &fakeEventRepo{}, &fakeSnapshotRepo{})

	related, err := svc.RelatedItems(context.Background(), "rest_1", "m1", 90, 5)
	if err != nil {
		t.Fatalf("RelatedItems returned error: %v", err)
	}
	if len(related) != 2 {
		t.Fatalf("got %d related items, want 2", len(related))
	}
	if related[0].MenuItemID != "m2" || related[0].Count != 2 {
		t.Fatalf("got top related %s count %d, want m2 count 2", related[0].MenuItemID, related[0].Count)
	}
}
