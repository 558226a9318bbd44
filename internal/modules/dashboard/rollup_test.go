package dashboard

import (
	"testing"

	"github.com/nravi/wealthtrack/internal/domain"
)

func TestBuildAllocationFixedOrderAndPresence(t *testing.T) {
	stockItems := []valuedItem{
		{Label: "INFY", Value: 1000, Category: domain.CategoryINDStocks},
	}
	snapshotItems := []valuedItem{
		{Label: "PPF", Value: 2000, Category: domain.CategoryRetirals},
		{Label: "Gold", Value: 500, Category: domain.CategoryMetals},
		{Label: "BTC", Value: 250, Category: domain.CategoryCrypto},
	}

	allocation := buildAllocation(stockItems, snapshotItems, 3000)

	want := []AllocationItem{
		{Category: "IND Stocks", Value: 1000},
		{Category: "Metals & Crypto", Value: 750},
		{Category: "Retirals", Value: 2000},
		{Category: "Real Estate", Value: 3000},
	}
	if len(allocation.Items) != len(want) {
		t.Fatalf("Expected %d buckets, got %d", len(want), len(allocation.Items))
	}
	for i, w := range want {
		if allocation.Items[i] != w {
			t.Errorf("Bucket %d: expected %+v, got %+v", i, w, allocation.Items[i])
		}
	}
	if allocation.Total != 6750 {
		t.Errorf("Expected total 6750, got %.2f", allocation.Total)
	}
}

func TestBuildAllocationEmpty(t *testing.T) {
	allocation := buildAllocation(nil, nil, 0)
	if allocation.Total != 0 {
		t.Errorf("Expected total 0, got %.2f", allocation.Total)
	}
	if allocation.Items == nil || len(allocation.Items) != 0 {
		t.Errorf("Expected empty (non-nil) items, got %v", allocation.Items)
	}
}

func TestBuildTilesSortAndShare(t *testing.T) {
	inv := 800.0
	stockItems := []valuedItem{
		{Label: "Small", Value: 250, Category: domain.CategoryUSStocks},
		{Label: "Large", Value: 750, Invested: &inv, Category: domain.CategoryUSStocks},
	}

	tiles := buildTiles(stockItems, nil)

	if len(tiles) != 5 {
		t.Fatalf("Expected 5 tiles, got %d", len(tiles))
	}

	var usTile *Tile
	for i := range tiles {
		if tiles[i].Category == "US Stocks" {
			usTile = &tiles[i]
		}
	}
	if usTile == nil {
		t.Fatal("Expected a US Stocks tile")
	}
	if usTile.Total != 1000 {
		t.Errorf("Expected tile total 1000, got %.2f", usTile.Total)
	}
	if usTile.Items[0].Label != "Large" {
		t.Errorf("Expected items sorted by descending value, got %q first", usTile.Items[0].Label)
	}
	if usTile.Items[0].AllocationPct != 75 {
		t.Errorf("Expected 75%% share, got %.2f", usTile.Items[0].AllocationPct)
	}
	if usTile.Items[1].AllocationPct != 25 {
		t.Errorf("Expected 25%% share, got %.2f", usTile.Items[1].AllocationPct)
	}
}

func TestBuildTilesEmptyTileHasZeroShare(t *testing.T) {
	tiles := buildTiles(nil, nil)
	for _, tile := range tiles {
		if tile.Total != 0 {
			t.Errorf("Tile %s: expected total 0, got %.2f", tile.Category, tile.Total)
		}
		if len(tile.Items) != 0 {
			t.Errorf("Tile %s: expected no items", tile.Category)
		}
	}
}
