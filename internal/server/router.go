// Package server exposes the analytics engine over HTTP.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/plateworks/menumetrics/internal/batch"
	"github.com/plateworks/menumetrics/internal/models"
	"github.com/plateworks/menumetrics/pkg/logger"
)

func NewRouter(cfg *models.Config, analytics AnalyticsAPI, strategies StrategyAPI, batcher *batch.Batcher, log *logger.Logger) *gin.Engine {
	r := gin.Default()

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}))
	}

	h := NewHandler(analytics, strategies, batcher, cfg.AnalysisPeriodDays, log)

	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		api.GET("/restaurants/:id/analytics", h.Analytics)
		api.GET("/restaurants/:id/recommendations", h.Recommendations)
		api.GET("/restaurants/:id/ab-metrics", h.ABMetrics)
		api.GET("/restaurants/:id/related-items", h.RelatedItems)
		api.POST("/restaurants/:id/strategies", h.Strategies)
		api.POST("/price-simulations", h.PriceSimulations)
		api.POST("/events", h.IngestEvents)
	}

	return r
}
