package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plateworks/menumetrics/internal/batch"
	"github.com/plateworks/menumetrics/internal/engine"
	"github.com/plateworks/menumetrics/internal/models"
	"github.com/plateworks/menumetrics/internal/service"
	"github.com/plateworks/menumetrics/pkg/logger"
)

type stubAnalytics struct {
	summary models.AnalyticsSummary
	recs    []models.Recommendation
	report  *models.VariantReport
	related []engine.ItemAffinity
	err     error

	lastRestaurant string
	lastDays       int
}

func (s *stubAnalytics) RunAnalysis(ctx context.Context, restaurantID string, periodDays int) (*service.AnalysisResult, error) {
	s.lastRestaurant, s.lastDays = restaurantID, periodDays
	if s.err != nil {
		return nil, s.err
	}
	return &service.AnalysisResult{Summary: s.summary}, nil
}

func (s *stubAnalytics) Recommendations(ctx context.Context, restaurantID string, periodDays int) ([]models.Recommendation, error) {
	s.lastRestaurant, s.lastDays = restaurantID, periodDays
	return s.recs, s.err
}

func (s *stubAnalytics) VariantReport(ctx context.Context, restaurantID string, periodDays int) (*models.VariantReport, error) {
	s.lastRestaurant, s.lastDays = restaurantID, periodDays
	return s.report, s.err
}

func (s *stubAnalytics) RelatedItems(ctx context.Context, restaurantID, itemID string, periodDays, limit int) ([]engine.ItemAffinity, error) {
	s.lastRestaurant, s.lastDays = restaurantID, periodDays
	return s.related, s.err
}

type stubStrategies struct {
	strategies      []models.Strategy
	generateCalled  bool
	fromInputCalled bool
	lastInput       engine.StrategyInput
}

func (s *stubStrategies) Generate(ctx context.Context, restaurantID string, periodDays int) ([]models.Strategy, error) {
	s.generateCalled = true
	return s.strategies, nil
}

func (s *stubStrategies) GenerateFromInput(input engine.StrategyInput) []models.Strategy {
	s.fromInputCalled = true
	s.lastInput = input
	return s.strategies
}

type nopSink struct{}

func (nopSink) WriteEvents(ctx context.Context, events []models.MenuEvent) error { return nil }
func (nopSink) Close() error                                                     { return nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.LevelError, Format: "text", Output: "stderr"})
}

func setupRouter(analytics AnalyticsAPI, strategies StrategyAPI, batcher *batch.Batcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &models.Config{AnalysisPeriodDays: 30}
	return NewRouter(cfg, analytics, strategies, batcher, testLogger())
}

func newTestBatcher() *batch.Batcher {
	return batch.NewBatcher(nopSink{}, time.Minute, 100, testLogger())
}

func TestHealthEndpoint(t *testing.T) {
	r := setupRouter(&stubAnalytics{}, &stubStrategies{}, newTestBatcher())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestAnalyticsEndpoint(t *testing.T) {
	stub := &stubAnalytics{summary: models.AnalyticsSummary{
		RestaurantID: "rest_1",
		TotalRevenue: 1100,
		TotalItems:   2,
		Stars:        1,
	}}
	r := setupRouter(stub, &stubStrategies{}, newTestBatcher())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/rest_1/analytics?days=14", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.lastRestaurant != "rest_1" || stub.lastDays != 14 {
		t.Fatalf("service called with %s/%d, want rest_1/14", stub.lastRestaurant, stub.lastDays)
	}

	var summary models.AnalyticsSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if summary.TotalRevenue != 1100 || summary.Stars != 1 {
		t.Fatalf("got revenue %.2f stars %d, want 1100 / 1", summary.TotalRevenue, summary.Stars)
	}
}

func TestAnalyticsDefaultsPeriod(t *testing.T) {
	stub := &stubAnalytics{}
	r := setupRouter(stub, &stubStrategies{}, newTestBatcher())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/rest_1/analytics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if stub.lastDays != 30 {
		t.Fatalf("got %d days, want config default 30", stub.lastDays)
	}
}

func TestAnalyticsRejectsBadDays(t *testing.T) {
	r := setupRouter(&stubAnalytics{}, &stubStrategies{}, newTestBatcher())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/rest_1/analytics?days=soon", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "error") {
		t.Fatalf("expected error body, got %s", w.Body.String())
	}
}

func TestAnalyticsReportsServiceFailure(t *testing.T) {
	r := setupRouter(&stubAnalytics{err: errors.New("db down")}, &stubStrategies{}, newTestBatcher())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/rest_1/analytics", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
}

func TestRecommendationsNeverNull(t *testing.T) {
	r := setupRouter(&stubAnalytics{}, &stubStrategies{}, newTestBatcher())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/rest_1/recommendations", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"recommendations":[]`) {
		t.Fatalf("expected empty array, got %s", w.Body.String())
	}
}

func TestABMetricsEndpoint(t *testing.T) {
	stub := &stubAnalytics{report: &models.VariantReport{
		RestaurantID: "rest_1",
		Significance: models.SignificanceResult{IsSignificant: true, Winner: "a", ConfidenceLevel: 99},
		SampleSize:   80,
	}}
	r := setupRouter(stub, &stubStrategies{}, newTestBatcher())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/rest_1/ab-metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var report models.VariantReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if report.Significance.Winner != "a" || report.SampleSize != 80 {
		t.Fatalf("got winner %s size %d, want a / 80", report.Significance.Winner, report.SampleSize)
	}
}

func TestRelatedItemsRequiresItem(t *testing.T) {
	r := setupRouter(&stubAnalytics{}, &stubStrategies{}, newTestBatcher())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/rest_1/related-items", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestStrategiesFromBody(t *testing.T) {
	stub := &stubStrategies{strategies: []models.Strategy{{StrategyID: models.StrategyGoldenTriangle}}}
	r := setupRouter(&stubAnalytics{}, stub, newTestBatcher())

	body, _ := json.Marshal(engine.StrategyInput{
		Items:      []models.MenuItem{{ID: "m1", Name: "Margherita", Price: 12}},
		Categories: []models.Category{{ID: "c1", Name: "Pizza", Position: 1}},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants/rest_1/strategies", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !stub.fromInputCalled {
		t.Fatal("expected stateless path for body with items")
	}
	if stub.generateCalled {
		t.Fatal("stored-menu path should not run when items are supplied")
	}
	if len(stub.lastInput.Items) != 1 || stub.lastInput.Items[0].Name != "Margherita" {
		t.Fatalf("input not passed through: %+v", stub.lastInput)
	}
}

func TestStrategiesEmptyBodyUsesStoredMenu(t *testing.T) {
	stub := &stubStrategies{}
	r := setupRouter(&stubAnalytics{}, stub, newTestBatcher())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/restaurants/rest_1/strategies", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !stub.generateCalled {
		t.Fatal("expected stored-menu path for empty body")
	}
}

func TestPriceSimulations(t *testing.T) {
	r := setupRouter(&stubAnalytics{}, &stubStrategies{}, newTestBatcher())

	body := []byte(`{"current_price": 10, "unit_cost": 4, "baseline_quantity": 80}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/price-simulations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Scenarios []engine.PriceScenario `json:"scenarios"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Scenarios) != 5 {
		t.Fatalf("got %d scenarios, want 5 defaults", len(resp.Scenarios))
	}
}

func TestPriceSimulationsRejectsZeroPrice(t *testing.T) {
	r := setupRouter(&stubAnalytics{}, &stubStrategies{}, newTestBatcher())

	body := []byte(`{"current_price": 0, "unit_cost": 4, "baseline_quantity": 80}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/price-simulations", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestIngestEventsQueuesAndStamps(t *testing.T) {
	batcher := newTestBatcher()
	r := setupRouter(&stubAnalytics{}, &stubStrategies{}, batcher)

	body := []byte(`[
		{"restaurant_id": "rest_1", "session_id": "s1", "event_type": "menu_view", "variant": "a"},
		{"restaurant_id": "rest_1", "session_id": "s1", "event_type": "item_click", "variant": "a", "menu_item_id": "m1"}
	]`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"queued":2`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if got := batcher.Len(); got != 2 {
		t.Fatalf("got %d buffered events, want 2", got)
	}
}

func TestIngestEventsRejectsIncomplete(t *testing.T) {
	r := setupRouter(&stubAnalytics{}, &stubStrategies{}, newTestBatcher())

	body := []byte(`[{"session_id": "s1", "variant": "a"}]`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}
