package factories

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/plateworks/menumetrics/internal/models"
)

// funnel holds the conversion rates between successive steps of a menu
// browsing session.
type funnel struct {
	click    float64
	cart     float64
	checkout float64
	complete float64
}

var variantFunnels = map[string]funnel{
	models.VariantA: {click: 0.55, cart: 0.45, checkout: 0.70, complete: 0.80},
	models.VariantB: {click: 0.50, cart: 0.38, checkout: 0.62, complete: 0.75},
}

var sessionDevices = []string{"mobile", "mobile", "mobile", "desktop", "tablet"}

type EventFactory struct {
	rng *rand.Rand
}

func NewEventFactory(rng *rand.Rand) *EventFactory {
	return &EventFactory{rng: rng}
}

// GenerateSessions produces browsing sessions for the trailing window ending
// today. Each session opens with a menu_view and walks the funnel of its
// assigned variant; variant A converts a little better than B so experiment
// reports have a winner to find.
func (ef *EventFactory) GenerateSessions(restaurantID string, items []models.MenuItem, days, sessionsPerDay int) []models.MenuEvent {
	if len(items) == 0 || days <= 0 || sessionsPerDay <= 0 {
		return nil
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)

	var events []models.MenuEvent
	for d := days - 1; d >= 0; d-- {
		day := end.AddDate(0, 0, -d)
		jitter := 0.85 + ef.rng.Float64()*0.3
		count := int(float64(sessionsPerDay) * weekdayWeights[day.Weekday()] * jitter)
		for i := 0; i < count; i++ {
			events = append(events, ef.generateSession(restaurantID, items, day)...)
		}
	}

	return events
}

func (ef *EventFactory) generateSession(restaurantID string, items []models.MenuItem, day time.Time) []models.MenuEvent {
	sessionID := uuid.NewString()
	variant := models.VariantA
	if ef.rng.Float64() < 0.5 {
		variant = models.VariantB
	}
	steps := variantFunnels[variant]

	at := day.
		Add(time.Duration(pickHour(ef.rng)) * time.Hour).
		Add(time.Duration(ef.rng.Intn(60)) * time.Minute).
		Add(time.Duration(ef.rng.Intn(60)) * time.Second)

	var events []models.MenuEvent
	record := func(eventType, itemID string, orderValue float64, metadata map[string]string) {
		events = append(events, models.MenuEvent{
			ID:           uuid.NewString(),
			RestaurantID: restaurantID,
			SessionID:    sessionID,
			EventType:    eventType,
			Variant:      variant,
			MenuItemID:   itemID,
			OrderValue:   orderValue,
			OccurredAt:   at,
			Metadata:     metadata,
		})
		at = at.Add(time.Duration(5+ef.rng.Intn(90)) * time.Second)
	}

	device := sessionDevices[ef.rng.Intn(len(sessionDevices))]
	record(models.EventMenuView, "", 0, map[string]string{"device": device})

	if ef.rng.Float64() >= steps.click {
		return events
	}
	record(models.EventItemClick, ef.pickItem(items), 0, nil)

	if ef.rng.Float64() >= steps.cart {
		return events
	}
	record(models.EventAddToCart, ef.pickItem(items), 0, nil)

	if ef.rng.Float64() >= steps.checkout {
		return events
	}
	record(models.EventCheckoutStarted, "", 0, nil)

	if ef.rng.Float64() >= steps.complete {
		return events
	}
	var total float64
	for i := 0; i < 1+ef.rng.Intn(3); i++ {
		total += items[ef.rng.Intn(len(items))].Price
	}
	record(models.EventCheckoutCompleted, "", round2(total), nil)

	return events
}

func (ef *EventFactory) pickItem(items []models.MenuItem) string {
	return items[ef.rng.Intn(len(items))].ID
}
