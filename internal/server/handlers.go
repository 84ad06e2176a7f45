package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/plateworks/menumetrics/internal/batch"
	"github.com/plateworks/menumetrics/internal/engine"
	"github.com/plateworks/menumetrics/internal/models"
	"github.com/plateworks/menumetrics/internal/service"
	"github.com/plateworks/menumetrics/pkg/logger"
)

const relatedItemsDefaultDays = 90

// AnalyticsAPI is the slice of the analytics service the handlers call.
type AnalyticsAPI interface {
	RunAnalysis(ctx context.Context, restaurantID string, periodDays int) (*service.AnalysisResult, error)
	Recommendations(ctx context.Context, restaurantID string, periodDays int) ([]models.Recommendation, error)
	VariantReport(ctx context.Context, restaurantID string, periodDays int) (*models.VariantReport, error)
	RelatedItems(ctx context.Context, restaurantID, itemID string, periodDays, limit int) ([]engine.ItemAffinity, error)
}

type StrategyAPI interface {
	Generate(ctx context.Context, restaurantID string, periodDays int) ([]models.Strategy, error)
	GenerateFromInput(input engine.StrategyInput) []models.Strategy
}

type Handler struct {
	analytics   AnalyticsAPI
	strategies  StrategyAPI
	batcher     *batch.Batcher
	defaultDays int
	log         *logger.Logger
}

func NewHandler(analytics AnalyticsAPI, strategies StrategyAPI, batcher *batch.Batcher, defaultDays int, log *logger.Logger) *Handler {
	if defaultDays <= 0 {
		defaultDays = 30
	}
	return &Handler{
		analytics:   analytics,
		strategies:  strategies,
		batcher:     batcher,
		defaultDays: defaultDays,
		log:         log.WithComponent("http"),
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

func (h *Handler) Analytics(c *gin.Context) {
	days, err := queryInt(c, "days", h.defaultDays)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.analytics.RunAnalysis(c.Request.Context(), c.Param("id"), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result.Summary)
}

func (h *Handler) Recommendations(c *gin.Context) {
	days, err := queryInt(c, "days", h.defaultDays)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recs, err := h.analytics.Recommendations(c.Request.Context(), c.Param("id"), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if recs == nil {
		recs = []models.Recommendation{}
	}
	c.JSON(http.StatusOK, gin.H{
		"restaurant_id":   c.Param("id"),
		"period_days":     days,
		"recommendations": recs,
	})
}

func (h *Handler) ABMetrics(c *gin.Context) {
	days, err := queryInt(c, "days", h.defaultDays)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.analytics.VariantReport(c.Request.Context(), c.Param("id"), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) RelatedItems(c *gin.Context) {
	itemID := c.Query("item")
	if itemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item is required"})
		return
	}
	days, err := queryInt(c, "days", relatedItemsDefaultDays)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, err := queryInt(c, "limit", 5)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	related, err := h.analytics.RelatedItems(c.Request.Context(), c.Param("id"), itemID, days, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if related == nil {
		related = []engine.ItemAffinity{}
	}
	c.JSON(http.StatusOK, gin.H{
		"menu_item_id": itemID,
		"related":      related,
	})
}

// Strategies returns the four layout strategies. A body with items is a
// stateless transform of the caller's menu; an empty body generates from the
// restaurant's stored menu and sales history.
func (h *Handler) Strategies(c *gin.Context) {
	var input engine.StrategyInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var strategies []models.Strategy
	if len(input.Items) == 0 {
		days, err := queryInt(c, "days", h.defaultDays)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		strategies, err = h.strategies.Generate(c.Request.Context(), c.Param("id"), days)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	} else {
		strategies = h.strategies.GenerateFromInput(input)
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant_id": c.Param("id"),
		"strategies":    strategies,
	})
}

func (h *Handler) PriceSimulations(c *gin.Context) {
	var input engine.PriceSimulationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.CurrentPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "current_price must be positive"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"input":     input,
		"scenarios": engine.SimulatePriceChanges(input),
	})
}

// IngestEvents accepts a batch of tracking events, stamps anything the
// client left blank and queues them for the batcher. 202 signals the write
// is asynchronous.
func (h *Handler) IngestEvents(c *gin.Context) {
	var events []models.MenuEvent
	if err := c.ShouldBindJSON(&events); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(events) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no events in payload"})
		return
	}

	now := time.Now().UTC()
	for i := range events {
		if events[i].RestaurantID == "" || events[i].EventType == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("event %d is missing restaurant_id or event_type", i),
			})
			return
		}
		if events[i].ID == "" {
			events[i].ID = uuid.NewString()
		}
		if events[i].OccurredAt.IsZero() {
			events[i].OccurredAt = now
		}
	}

	for _, ev := range events {
		if err := h.batcher.Add(c.Request.Context(), ev); err != nil {
			h.log.Error("failed to queue events", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue events"})
			return
		}
	}

	c.JSON(http.StatusAccepted, gin.H{"queued": len(events)})
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return n, nil
}
