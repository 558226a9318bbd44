package dashboard

import (
	"sort"

	"github.com/nravi/wealthtrack/internal/domain"
	"github.com/nravi/wealthtrack/pkg/money"
)

// allocationOrder is the fixed display order of the allocation breakdown.
var allocationOrder = []string{
	"MF",
	"US Stocks",
	"IND Stocks",
	"Metals & Crypto",
	"Retirals",
	"Real Estate",
	"Cash & Bank",
	"Other",
}

// allocationLabel maps an asset category to its allocation bucket.
func allocationLabel(category domain.AssetCategory) string {
	switch category {
	case domain.CategoryMF:
		return "MF"
	case domain.CategoryUSStocks:
		return "US Stocks"
	case domain.CategoryINDStocks:
		return "IND Stocks"
	case domain.CategoryMetals, domain.CategoryCrypto:
		return "Metals & Crypto"
	case domain.CategoryRetirals:
		return "Retirals"
	case domain.CategoryRealEstate:
		return "Real Estate"
	case domain.CategoryCash:
		return "Cash & Bank"
	default:
		return "Other"
	}
}

// buildAllocation rolls the current holdings up into category buckets.
// Only buckets with at least one contribution appear.
func buildAllocation(stockItems, snapshotItems []valuedItem, realEstateTotal float64) Allocation {
	values := make(map[string]float64)

	for _, item := range stockItems {
		values[allocationLabel(item.Category)] += item.Value
	}
	for _, item := range snapshotItems {
		values[allocationLabel(item.Category)] += item.Value
	}
	if realEstateTotal > 0 {
		values["Real Estate"] += realEstateTotal
	}

	var items []AllocationItem
	total := 0.0
	for _, label := range allocationOrder {
		value, ok := values[label]
		if !ok {
			continue
		}
		rounded := money.Round2(value)
		items = append(items, AllocationItem{Category: label, Value: rounded})
		total += rounded
	}
	if items == nil {
		items = []AllocationItem{}
	}

	return Allocation{
		Total: money.Round2(total),
		Items: items,
	}
}

// tileDefs are the holdings groupings shown as dashboard tiles.
var tileDefs = []struct {
	category string
	match    func(domain.AssetCategory) bool
}{
	{"MF", func(c domain.AssetCategory) bool { return c == domain.CategoryMF }},
	{"US Stocks", func(c domain.AssetCategory) bool { return c == domain.CategoryUSStocks }},
	{"IND Stocks", func(c domain.AssetCategory) bool { return c == domain.CategoryINDStocks }},
	{"Metals & Crypto", func(c domain.AssetCategory) bool {
		return c == domain.CategoryMetals || c == domain.CategoryCrypto
	}},
	{"Retirals", func(c domain.AssetCategory) bool { return c == domain.CategoryRetirals }},
}

// buildTiles groups holdings into the fixed tiles, items sorted by descending
// value with each item's share of the tile total.
func buildTiles(stockItems, snapshotItems []valuedItem) []Tile {
	tiles := make([]Tile, 0, len(tileDefs))

	for _, def := range tileDefs {
		var members []valuedItem
		for _, item := range stockItems {
			if def.match(item.Category) {
				members = append(members, item)
			}
		}
		for _, item := range snapshotItems {
			if def.match(item.Category) {
				members = append(members, item)
			}
		}

		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Value > members[j].Value
		})

		total := 0.0
		for _, member := range members {
			total += member.Value
		}

		items := make([]TileItem, 0, len(members))
		for _, member := range members {
			pct := 0.0
			if total != 0 {
				pct = member.Value / total * 100
			}
			items = append(items, TileItem{
				Label:         member.Label,
				Value:         money.Round2(member.Value),
				Invested:      member.Invested,
				GainAbs:       member.GainAbs,
				GainPct:       member.GainPct,
				AllocationPct: money.Round2(pct),
			})
		}

		tiles = append(tiles, Tile{
			Category: def.category,
			Total:    money.Round2(total),
			Items:    items,
		})
	}

	return tiles
}
