package service

import (
	"context"
	"errors"
	"testing"

	"github.com/plateworks/menumetrics/internal/engine"
	"github.com/plateworks/menumetrics/internal/models"
)

func findLayout(t *testing.T, s models.Strategy, name string) models.LayoutItem {
	t.Helper()
	for _, sec := range s.Sections {
		if sec.Featured {
			continue
		}
		for _, item := range sec.Items {
			if item.Name == name {
				return item
			}
		}
	}
	t.Fatalf("item %s not found in strategy %s", name, s.StrategyID)
	return models.LayoutItem{}
}

func TestGenerateStampsAndClassifies(t *testing.T) {
	menu, lines := testMenu()
	items := &fakeItemRepo{
		items:      menu,
		categories: []models.Category{{ID: "c1", RestaurantID: "rest_1", Name: "Mains", Position: 1}},
	}
	analytics := newTestAnalytics(items, &fakeOrderRepo{lines: lines}, &fakeEventRepo{}, &fakeSnapshotRepo{})
	svc := NewStrategyService(items, analytics, testLogger())

	strategies, err := svc.Generate(context.Background(), "rest_1", 30)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(strategies) != 4 {
		t.Fatalf("got %d strategies, want 4", len(strategies))
	}

	seen := map[string]bool{}
	for _, s := range strategies {
		if s.ID == "" || s.GeneratedAt.IsZero() {
			t.Fatalf("strategy %s missing identity stamp", s.StrategyID)
		}
		if seen[s.ID] {
			t.Fatalf("duplicate strategy id %s", s.ID)
		}
		seen[s.ID] = true
	}
	if strategies[0].StrategyID != models.StrategyGoldenTriangle {
		t.Fatalf("got first strategy %s, want %s", strategies[0].StrategyID, models.StrategyGoldenTriangle)
	}

	margherita := findLayout(t, strategies[0], "Margherita")
	if margherita.Quadrant != "star" {
		t.Fatalf("got quadrant %q, want star", margherita.Quadrant)
	}
}

func TestGenerateDegradesWithoutSalesHistory(t *testing.T) {
	menu, _ := testMenu()
	items := &fakeItemRepo{
		items:      menu,
		categories: []models.Category{{ID: "c1", RestaurantID: "rest_1", Name: "Mains", Position: 1}},
	}
	analytics := newTestAnalytics(items, &fakeOrderRepo{err: errors.New("down")}, &fakeEventRepo{}, &fakeSnapshotRepo{})
	svc := NewStrategyService(items, analytics, testLogger())

	strategies, err := svc.Generate(context.Background(), "rest_1", 30)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(strategies) != 4 {
		t.Fatalf("got %d strategies, want 4", len(strategies))
	}
	margherita := findLayout(t, strategies[0], "Margherita")
	if margherita.Quadrant != "" {
		t.Fatalf("got quadrant %q, want empty without sales history", margherita.Quadrant)
	}
}

func TestGenerateFailsWhenMenuUnavailable(t *testing.T) {
	items := &fakeItemRepo{itemsErr: errors.New("down")}
	analytics := newTestAnalytics(items, &fakeOrderRepo{}, &fakeEventRepo{}, &fakeSnapshotRepo{})
	svc := NewStrategyService(items, analytics, testLogger())

	if _, err := svc.Generate(context.Background(), "rest_1", 30); err == nil {
		t.Fatal("expected error when menu cannot be loaded")
	}
}

func TestGenerateFromInputStamps(t *testing.T) {
	menu, _ := testMenu()
	items := &fakeItemRepo{}
	analytics := newTestAnalytics(items, &fakeOrderRepo{}, &fakeEventRepo{}, &fakeSnapshotRepo{})
	svc := NewStrategyService(items, analytics, testLogger())

	strategies := svc.GenerateFromInput(engine.StrategyInput{
		Items:      menu,
		Categories: []models.Category{{ID: "c1", Name: "Mains", Position: 1}},
	})
	if len(strategies) != 4 {
		t.Fatalf("got %d strategies, want 4", len(strategies))
	}
	for _, s := range strategies {
		if s.ID == "" || s.GeneratedAt.IsZero() {
			t.Fatalf("strategy %s missing identity stamp", s.StrategyID)
		}
	}
}
