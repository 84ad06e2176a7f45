package engine

import (
	"sort"

	"github.com/plateworks/menumetrics/internal/models"
)

// ItemAffinity counts how often another item appears in the same order as
// the target.
type ItemAffinity struct {
	MenuItemID string `json:"menu_item_id"`
	ItemName   string `json:"item_name"`
	Count      int    `json:"count"`
}

// RelatedItems finds the items most often bought together with itemID by
// counting co-occurrence within orders. Ties break on item name so the
// result is stable. A limit of zero or less falls back to 5.
func RelatedItems(lines []models.OrderLine, itemID string, limit int) []ItemAffinity {
	if limit <= 0 {
		limit = 5
	}

	orders := make(map[string][]models.OrderLine)
	for _, line := range lines {
		if line.MenuItemID == "" || line.OrderID == "" {
			continue
		}
		orders[line.OrderID] = append(orders[line.OrderID], line)
	}

	counts := make(map[string]int)
	names := make(map[string]string)
	for _, orderLines := range orders {
		hasTarget := false
		for _, line := range orderLines {
			if line.MenuItemID == itemID {
				hasTarget = true
				break
			}
		}
		if !hasTarget {
			continue
		}
		seen := make(map[string]bool)
		for _, line := range orderLines {
			if line.MenuItemID == itemID || seen[line.MenuItemID] {
				continue
			}
			seen[line.MenuItemID] = true
			counts[line.MenuItemID]++
			names[line.MenuItemID] = line.ItemName
		}
	}

	affinities := make([]ItemAffinity, 0, len(counts))
	for id, count := range counts {
		affinities = append(affinities, ItemAffinity{MenuItemID: id, ItemName: names[id], Count: count})
	}
	sort.Slice(affinities, func(i, j int) bool {
		if affinities[i].Count != affinities[j].Count {
			return affinities[i].Count > affinities[j].Count
		}
		return affinities[i].ItemName < affinities[j].ItemName
	})

	if len(affinities) > limit {
		affinities = affinities[:limit]
	}
	return affinities
}
