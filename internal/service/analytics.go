// Package service orchestrates repositories and the analytics engine. The
// engine stays pure; everything here that touches a clock, an ID generator
// or storage belongs to this layer.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lucsky/cuid"
	"github.com/plateworks/menumetrics/internal/engine"
	"github.com/plateworks/menumetrics/internal/models"
	"github.com/plateworks/menumetrics/internal/repositories"
	"github.com/plateworks/menumetrics/pkg/logger"
	"github.com/shopspring/decimal"
)

const defaultPeriodDays = 30

// AnalysisResult carries the computed summary together with the outcome of
// snapshot persistence. A persistence failure does not invalidate the
// computed figures, so callers get both.
type AnalysisResult struct {
	Summary     models.AnalyticsSummary
	SnapshotErr error
}

type AnalyticsService struct {
	items     repositories.MenuItemRepository
	orders    repositories.OrderRepository
	events    repositories.EventRepository
	snapshots repositories.SnapshotRepository
	log       *logger.Logger
}

func NewAnalyticsService(
	items repositories.MenuItemRepository,
	orders repositories.OrderRepository,
	events repositories.EventRepository,
	snapshots repositories.SnapshotRepository,
	log *logger.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		items:     items,
		orders:    orders,
		events:    events,
		snapshots: snapshots,
		log:       log.WithComponent("analytics"),
	}
}

// RunAnalysis classifies the restaurant's menu over the trailing window and
// persists one snapshot row per item. The summary is returned even when the
// snapshot write fails; the failure is logged and surfaced via SnapshotErr.
func (s *AnalyticsService) RunAnalysis(ctx context.Context, restaurantID string, periodDays int) (*AnalysisResult, error) {
	summary, err := s.computeSummary(ctx, restaurantID, periodDays)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{Summary: summary}
	snapshots := buildSnapshots(summary)
	if err := s.snapshots.UpsertBatch(ctx, snapshots); err != nil {
		s.log.Error("failed to persist analytics snapshots",
			"restaurant_id", restaurantID,
			"rows", len(snapshots),
			"error", err)
		result.SnapshotErr = err
	}
	return result, nil
}

// Recommendations runs a full analysis and derives action items from it.
func (s *AnalyticsService) Recommendations(ctx context.Context, restaurantID string, periodDays int) ([]models.Recommendation, error) {
	result, err := s.RunAnalysis(ctx, restaurantID, periodDays)
	if err != nil {
		return nil, err
	}
	return engine.Recommend(result.Summary), nil
}

// VariantReport aggregates tracked menu events per A/B variant and tests the
// conversion difference for significance.
func (s *AnalyticsService) VariantReport(ctx context.Context, restaurantID string, periodDays int) (*models.VariantReport, error) {
	periodStart, periodEnd := periodWindow(periodDays)
	events, err := s.events.GetEvents(ctx, restaurantID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu events: %w", err)
	}

	byVariant := engine.AggregateEvents(events)
	a := byVariant[models.VariantA]
	b := byVariant[models.VariantB]
	return &models.VariantReport{
		RestaurantID: restaurantID,
		A:            a,
		B:            b,
		Significance: engine.CompareVariants(a, b),
		SampleSize:   a.ViewCount + b.ViewCount,
	}, nil
}

// RelatedItems returns the items most often ordered together with itemID
// over the trailing window.
func (s *AnalyticsService) RelatedItems(ctx context.Context, restaurantID, itemID string, periodDays, limit int) ([]engine.ItemAffinity, error) {
	periodStart, periodEnd := periodWindow(periodDays)
	lines, err := s.orders.GetLines(ctx, restaurantID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load order lines: %w", err)
	}
	return engine.RelatedItems(lines, itemID, limit), nil
}

// Snapshots returns the stored rows for the restaurant's current analysis
// window without recomputing anything.
func (s *AnalyticsService) Snapshots(ctx context.Context, restaurantID string, periodDays int) ([]models.AnalyticsSnapshot, error) {
	periodStart, periodEnd := periodWindow(periodDays)
	return s.snapshots.GetByPeriod(ctx, restaurantID, periodStart, periodEnd)
}

func (s *AnalyticsService) computeSummary(ctx context.Context, restaurantID string, periodDays int) (models.AnalyticsSummary, error) {
	periodStart, periodEnd := periodWindow(periodDays)

	items, err := s.items.GetByRestaurantID(ctx, restaurantID)
	if err != nil {
		return models.AnalyticsSummary{}, fmt.Errorf("failed to load menu items: %w", err)
	}
	lines, err := s.orders.GetLines(ctx, restaurantID, periodStart, periodEnd)
	if err != nil {
		return models.AnalyticsSummary{}, fmt.Errorf("failed to load order lines: %w", err)
	}

	metrics := engine.AggregateOrders(lines)
	results := engine.Classify(metrics, items)
	return engine.Summarize(restaurantID, periodStart, periodEnd, results), nil
}

// periodWindow returns a half-open [start, end) window covering the trailing
// periodDays. Bounds are aligned to UTC days so a rerun on the same day maps
// onto the same snapshot natural key and overwrites its own rows.
func periodWindow(periodDays int) (time.Time, time.Time) {
	if periodDays <= 0 {
		periodDays = defaultPeriodDays
	}
	end := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	return end.AddDate(0, 0, -periodDays), end
}

func buildSnapshots(summary models.AnalyticsSummary) []models.AnalyticsSnapshot {
	computedAt := time.Now().UTC()
	snapshots := make([]models.AnalyticsSnapshot, 0, len(summary.Results))
	for _, r := range summary.Results {
		snapshots = append(snapshots, models.AnalyticsSnapshot{
			ID:                   cuid.New(),
			RestaurantID:         summary.RestaurantID,
			MenuItemID:           r.MenuItemID,
			ItemName:             r.ItemName,
			PeriodStart:          summary.PeriodStart,
			PeriodEnd:            summary.PeriodEnd,
			BCGQuadrant:          r.BCGQuadrant,
			MenuEngineeringClass: r.MenuEngineeringClass,
			PopularityIndex:      decimal.NewFromFloat(r.PopularityIndex).StringFixed(2),
			ProfitabilityIndex:   decimal.NewFromFloat(r.ProfitabilityIndex).StringFixed(2),
			QuantitySold:         r.QuantitySold,
			OrderCount:           r.OrderCount,
			TotalRevenue:         decimal.NewFromFloat(r.TotalRevenue).StringFixed(2),
			Contribution:         decimal.NewFromFloat(r.Contribution).StringFixed(2),
			GrossMarginPercent:   decimal.NewFromFloat(r.GrossMarginPercent).StringFixed(2),
			ComputedAt:           computedAt,
		})
	}
	return snapshots
}
