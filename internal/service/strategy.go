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
)

type StrategyService struct {
	items     repositories.MenuItemRepository
	analytics *AnalyticsService
	log       *logger.Logger
}

func NewStrategyService(items repositories.MenuItemRepository, analytics *AnalyticsService, log *logger.Logger) *StrategyService {
	return &StrategyService{
		items:     items,
		analytics: analytics,
		log:       log.WithComponent("strategy"),
	}
}

// Generate builds all four layout strategies for the restaurant's current
// menu. Classification data is best-effort: when sales history cannot be
// loaded the strategies fall back to their price-based heuristics.
func (s *StrategyService) Generate(ctx context.Context, restaurantID string, periodDays int) ([]models.Strategy, error) {
	items, err := s.items.GetByRestaurantID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}
	categories, err := s.items.GetCategories(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	input := engine.StrategyInput{Items: items, Categories: categories}
	summary, err := s.analytics.computeSummary(ctx, restaurantID, periodDays)
	if err != nil {
		s.log.Warn("generating strategies without classification data",
			"restaurant_id", restaurantID,
			"error", err)
	} else {
		input.Classifications = summary.Results
	}

	return s.stamp(engine.GenerateStrategies(input)), nil
}

// GenerateFromInput is the stateless variant: the caller supplies the menu
// (and optionally classifications) directly.
func (s *StrategyService) GenerateFromInput(input engine.StrategyInput) []models.Strategy {
	return s.stamp(engine.GenerateStrategies(input))
}

func (s *StrategyService) stamp(strategies []models.Strategy) []models.Strategy {
	now := time.Now().UTC()
	for i := range strategies {
		strategies[i].ID = cuid.New()
		strategies[i].GeneratedAt = now
	}
	return strategies
}
