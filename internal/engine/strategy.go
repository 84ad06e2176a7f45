package engine

import (
	"math"
	"sort"
	"strings"

	"github.com/plateworks/menumetrics/internal/models"
)

// StrategyInput carries everything the layout transforms read: the menu
// roster grouped by category, optional classification results (matched by
// item id) and an optional palette override for the built-in themes.
type StrategyInput struct {
	Items           []models.MenuItem             `json:"items"`
	Categories      []models.Category             `json:"categories"`
	Classifications []models.ClassificationResult `json:"classifications,omitempty"`
	Palette         []string                      `json:"palette,omitempty"`
}

var strategyThemes = map[string]models.Theme{
	models.StrategyGoldenTriangle: {
		Layout: "grid", Columns: 2,
		Palette:     [4]string{"#1F2937", "#B45309", "#FFFBEB", "#111827"},
		HeadingFont: "Playfair Display", BodyFont: "Lato", PriceStyle: "standard",
	},
	models.StrategyAnchoring: {
		Layout: "list", Columns: 1,
		Palette:     [4]string{"#0F172A", "#9A3412", "#F8FAFC", "#1E293B"},
		HeadingFont: "Cormorant Garamond", BodyFont: "Inter", PriceStyle: "no-symbol",
	},
	models.StrategyDecoy: {
		Layout: "magazine", Columns: 3,
		Palette:     [4]string{"#18181B", "#A16207", "#FAFAF9", "#27272A"},
		HeadingFont: "Libre Baskerville", BodyFont: "Source Sans Pro", PriceStyle: "boxed",
	},
	models.StrategyScarcity: {
		Layout: "minimal", Columns: 1,
		Palette:     [4]string{"#1C1917", "#B91C1C", "#FAFAF9", "#292524"},
		HeadingFont: "DM Serif Display", BodyFont: "DM Sans", PriceStyle: "standard",
	},
}

// GenerateStrategies produces the four layout strategies for one menu. Each
// strategy is a deterministic transform of the same input; callers stamp IDs
// and timestamps. Two post-processing rules run on every strategy: items in
// regular sections are stably re-sorted by quadrant priority (stars first,
// then puzzles, plow horses, dogs, unclassified last), and highlight flags
// are capped at ceil(items*0.3) across the whole menu.
func GenerateStrategies(input StrategyInput) []models.Strategy {
	b := newLayoutBuilder(input)
	return []models.Strategy{
		b.goldenTriangle(),
		b.anchoring(),
		b.decoy(),
		b.scarcity(),
	}
}

type layoutBuilder struct {
	input      StrategyInput
	categories []models.Category
	byCategory map[string][]models.MenuItem
	loose      []models.MenuItem // items whose category id matches nothing
	classes    map[string]models.ClassificationResult
	avgPrice   float64
}

func newLayoutBuilder(input StrategyInput) *layoutBuilder {
	b := &layoutBuilder{
		input:      input,
		byCategory: make(map[string][]models.MenuItem),
		classes:    make(map[string]models.ClassificationResult, len(input.Classifications)),
	}

	b.categories = append(b.categories, input.Categories...)
	sort.SliceStable(b.categories, func(i, j int) bool {
		return b.categories[i].Position < b.categories[j].Position
	})

	known := make(map[string]bool, len(b.categories))
	for _, c := range b.categories {
		known[c.ID] = true
	}

	var priceSum float64
	for _, item := range input.Items {
		priceSum += item.Price
		if known[item.CategoryID] {
			b.byCategory[item.CategoryID] = append(b.byCategory[item.CategoryID], item)
		} else {
			b.loose = append(b.loose, item)
		}
	}
	if len(input.Items) > 0 {
		b.avgPrice = priceSum / float64(len(input.Items))
	}

	for _, c := range input.Classifications {
		b.classes[c.MenuItemID] = c
	}

	return b
}

func (b *layoutBuilder) layoutItem(item models.MenuItem) models.LayoutItem {
	li := models.LayoutItem{
		MenuItemID:  item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
	}
	if c, ok := b.classes[item.ID]; ok {
		li.Quadrant = c.MenuEngineeringClass
	}
	return li
}

// baseSections builds a fresh copy of the category layout so each strategy
// can mutate its own.
func (b *layoutBuilder) baseSections() []models.Section {
	sections := make([]models.Section, 0, len(b.categories)+1)
	for _, cat := range b.categories {
		items := b.byCategory[cat.ID]
		if len(items) == 0 {
			continue
		}
		sec := models.Section{Title: cat.Name, Items: make([]models.LayoutItem, 0, len(items))}
		for _, item := range items {
			sec.Items = append(sec.Items, b.layoutItem(item))
		}
		sections = append(sections, sec)
	}
	if len(b.loose) > 0 {
		sec := models.Section{Title: "Menu", Items: make([]models.LayoutItem, 0, len(b.loose))}
		for _, item := range b.loose {
			sec.Items = append(sec.Items, b.layoutItem(item))
		}
		sections = append(sections, sec)
	}
	return sections
}

// goldenTriangle leads with a featured block of proven winners and
// highlights the first slots guests scan in each section.
func (b *layoutBuilder) goldenTriangle() models.Strategy {
	sections := b.baseSections()

	for si := range sections {
		for ii := range sections[si].Items {
			if ii == 0 || (si == 0 && ii < 3) {
				sections[si].Items[ii].IsHighlighted = true
			}
		}
	}

	featured := b.featuredItems()
	if len(featured) > 0 {
		sections = append([]models.Section{{Title: "Featured", Featured: true, Items: featured}}, sections...)
	}

	return b.finish(models.StrategyGoldenTriangle, "Golden Triangle",
		"Puts proven winners where eyes land first: a featured block up top and the lead slot of every section.",
		sections)
}

// featuredItems picks up to five stars, or falls back to items priced
// moderately above the menu average when nothing is classified.
func (b *layoutBuilder) featuredItems() []models.LayoutItem {
	itemsByID := make(map[string]models.MenuItem, len(b.input.Items))
	for _, item := range b.input.Items {
		itemsByID[item.ID] = item
	}

	var picks []models.MenuItem
	if len(b.input.Classifications) > 0 {
		for _, c := range b.input.Classifications {
			if c.Quadrant != models.QuadrantStar {
				continue
			}
			if item, ok := itemsByID[c.MenuItemID]; ok {
				picks = append(picks, item)
			}
			if len(picks) == 5 {
				break
			}
		}
	} else {
		low, high := b.avgPrice*1.2, b.avgPrice*1.6
		for _, item := range b.input.Items {
			if item.Price >= low && item.Price <= high {
				picks = append(picks, item)
			}
			if len(picks) == 5 {
				break
			}
		}
	}

	featured := make([]models.LayoutItem, 0, len(picks))
	for _, item := range picks {
		li := b.layoutItem(item)
		li.IsHighlighted = true
		li.Badges = append(li.Badges, models.BadgeStar)
		featured = append(featured, li)
	}
	return featured
}

// anchoring sorts each section priciest-first and flags the single most
// expensive dish on the menu as the anchor, pinned to the top of its
// section. The runners-up in every section get highlighted instead.
func (b *layoutBuilder) anchoring() models.Strategy {
	sections := b.baseSections()

	var anchorSec, anchorIdx = -1, -1
	var maxPrice float64
	for si := range sections {
		sort.SliceStable(sections[si].Items, func(i, j int) bool {
			return sections[si].Items[i].Price > sections[si].Items[j].Price
		})
		for ii := range sections[si].Items {
			if sections[si].Items[ii].Price > maxPrice {
				maxPrice = sections[si].Items[ii].Price
				anchorSec, anchorIdx = si, ii
			}
		}
	}

	if anchorSec >= 0 {
		items := sections[anchorSec].Items
		anchor := items[anchorIdx]
		anchor.IsAnchor = true
		copy(items[1:anchorIdx+1], items[:anchorIdx])
		items[0] = anchor
	}

	for si := range sections {
		for ii := 1; ii <= 2 && ii < len(sections[si].Items); ii++ {
			sections[si].Items[ii].IsHighlighted = true
		}
	}

	return b.finish(models.StrategyAnchoring, "Price Anchoring",
		"Leads with the priciest dish so everything after it reads as better value.",
		sections)
}

// decoy orders each section cheapest-first and plants the second-priciest
// dish right before the one it should sell.
func (b *layoutBuilder) decoy() models.Strategy {
	sections := b.baseSections()

	for si := range sections {
		items := sections[si].Items
		if len(items) < 3 {
			continue
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Price < items[j].Price
		})
		items[len(items)-2].IsDecoy = true
		best := &items[len(items)-1]
		best.Badges = append(best.Badges, models.BadgeBestChoice)
		best.IsHighlighted = true
	}

	return b.finish(models.StrategyDecoy, "Decoy Pricing",
		"Plants a near-premium option that steers guests toward the dish the house actually wants to sell.",
		sections)
}

// scarcity keeps the menu order and layers scarcity and social-proof badges
// onto the high-value quadrants. Without classification data it badges every
// third item instead.
func (b *layoutBuilder) scarcity() models.Strategy {
	sections := b.baseSections()
	classified := len(b.input.Classifications) > 0

	badgeIdx := 0
	ordinal := 0
	for si := range sections {
		for ii := range sections[si].Items {
			item := &sections[si].Items[ii]

			badge := false
			if classified {
				badge = item.Quadrant == "star" || item.Quadrant == "puzzle"
			} else {
				badge = ordinal%3 == 1
			}
			ordinal++
			if !badge {
				continue
			}

			item.Badges = append(item.Badges, models.ScarcityBadgePool[badgeIdx%len(models.ScarcityBadgePool)])
			badgeIdx++

			switch item.Quadrant {
			case "star":
				forceAddBadge(item, models.BadgeMostOrdered, "Most Ordered")
			case "puzzle":
				forceAddBadge(item, models.BadgeLimitedTime, "Limited")
			}
			item.IsHighlighted = true
		}
	}

	return b.finish(models.StrategyScarcity, "Scarcity & Social Proof",
		"Badges high-value dishes with scarcity and popularity cues while keeping the familiar order.",
		sections)
}

// forceAddBadge appends badge unless an existing badge already carries the
// probe substring.
func forceAddBadge(item *models.LayoutItem, badge, probe string) {
	for _, existing := range item.Badges {
		if strings.Contains(existing, probe) {
			return
		}
	}
	item.Badges = append(item.Badges, badge)
}

var quadrantPriority = map[string]int{
	"star":       0,
	"puzzle":     1,
	"plow_horse": 2,
	"dog":        3,
}

func sortPriority(label string) int {
	if p, ok := quadrantPriority[label]; ok {
		return p
	}
	return len(quadrantPriority)
}

// finish applies the shared post-processing and assembles the strategy.
func (b *layoutBuilder) finish(strategyID, name, description string, sections []models.Section) models.Strategy {
	for si := range sections {
		if sections[si].Featured {
			continue
		}
		items := sections[si].Items
		sort.SliceStable(items, func(i, j int) bool {
			return sortPriority(items[i].Quadrant) < sortPriority(items[j].Quadrant)
		})
	}

	limit := int(math.Ceil(float64(len(b.input.Items)) * models.HighlightRatio))
	highlighted := 0
	for si := range sections {
		for ii := range sections[si].Items {
			sections[si].Items[ii].Position = ii
			if !sections[si].Items[ii].IsHighlighted {
				continue
			}
			if highlighted >= limit {
				sections[si].Items[ii].IsHighlighted = false
				continue
			}
			highlighted++
		}
	}

	theme := strategyThemes[strategyID]
	if len(b.input.Palette) >= 4 {
		copy(theme.Palette[:], b.input.Palette[:4])
	}

	return models.Strategy{
		StrategyID:     strategyID,
		Name:           name,
		Description:    description,
		Theme:          theme,
		Sections:       sections,
		HighlightCount: highlighted,
	}
}
