package models

import "time"

// Theme is the visual treatment a strategy pairs with its layout. Each
// strategy ships one fixed theme; a palette override only swaps the colors.
type Theme struct {
	Layout      string    `json:"layout"` // grid, list, magazine, minimal
	Columns     int       `json:"columns"`
	Palette     [4]string `json:"palette"` // hex colors
	HeadingFont string    `json:"heading_font"`
	BodyFont    string    `json:"body_font"`
	PriceStyle  string    `json:"price_style"` // standard, no-symbol, boxed
}

type LayoutItem struct {
	MenuItemID    string   `json:"menu_item_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Position      int      `json:"position"`
	IsHighlighted bool     `json:"is_highlighted"`
	Badges        []string `json:"badges,omitempty"`
	IsAnchor      bool     `json:"is_anchor,omitempty"`
	IsDecoy       bool     `json:"is_decoy,omitempty"`
	Quadrant      string   `json:"quadrant,omitempty"` // menu-engineering label, empty when unclassified
}

type Section struct {
	Title    string       `json:"title"`
	Featured bool         `json:"featured,omitempty"`
	Items    []LayoutItem `json:"items"`
}

type Strategy struct {
	ID             string    `json:"id"`
	StrategyID     string    `json:"strategy_id"` // golden-triangle, anchoring, decoy, scarcity
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Theme          Theme     `json:"theme"`
	Sections       []Section `json:"sections"`
	HighlightCount int       `json:"highlight_count"`
	GeneratedAt    time.Time `json:"generated_at"`
}

type Recommendation struct {
	Type       string `json:"type"`     // promote, remove, market, optimize
	Priority   string `json:"priority"` // high, medium, low
	MenuItemID string `json:"menu_item_id"`
	ItemName   string `json:"item_name"`
	Message    string `json:"message"`
	Impact     string `json:"impact"`
}
