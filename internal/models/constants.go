package models

const (
	EventMenuView          = "menu_view"
	EventItemClick         = "item_click"
	EventAddToCart         = "add_to_cart"
	EventCheckoutStarted   = "checkout_started"
	EventCheckoutCompleted = "checkout_completed"

	VariantA = "a"
	VariantB = "b"

	WinnerTie = "tie"

	StrategyGoldenTriangle = "golden-triangle"
	StrategyAnchoring      = "anchoring"
	StrategyDecoy          = "decoy"
	StrategyScarcity       = "scarcity"

	RecommendationPromote  = "promote"
	RecommendationRemove   = "remove"
	RecommendationMarket   = "market"
	RecommendationOptimize = "optimize"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	BadgeStar        = "Star"
	BadgeBestChoice  = "Best Choice"
	BadgeMostOrdered = "Most Ordered"
	BadgeLimitedTime = "Limited Time"
)

// ScarcityBadgePool is cycled through when the scarcity strategy tags items.
var ScarcityBadgePool = []string{
	"Chef's Special",
	"Customer Favorite",
	"Limited Availability",
	"Most Ordered This Week",
}

// MinSampleSize is the per-variant view count below which an A/B comparison
// reports insufficient data.
const MinSampleSize = 30

// HighlightRatio caps how much of a menu a strategy may visually emphasise.
const HighlightRatio = 0.3
