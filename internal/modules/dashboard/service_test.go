package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nravi/wealthtrack/internal/cache"
	"github.com/nravi/wealthtrack/internal/domain"
)

var testNow = time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

func TestComputeStockValuation(t *testing.T) {
	store := &fakeStore{
		trades: []domain.Transaction{
			trade(domain.TxnBuy, 1, "2026-01-10", 10, 100, 5),
		},
		prices: []domain.StockPrice{
			{StockID: 1, Price: 120, Currency: domain.CurrencyINR, AsOfDate: day("2026-08-20")},
		},
	}
	service := newTestService(store, testNow)

	payload, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range3M)
	require.NoError(t, err)

	assert.Equal(t, 1200.0, payload.Metrics.Investments)
	assert.Equal(t, 1200.0, payload.Metrics.NetWorth)
	assert.Equal(t, 0.0, payload.Metrics.Liabilities)
	assert.Empty(t, payload.Warnings)

	var tile *Tile
	for i := range payload.Tiles {
		if payload.Tiles[i].Category == "IND Stocks" {
			tile = &payload.Tiles[i]
		}
	}
	require.NotNil(t, tile)
	require.Len(t, tile.Items, 1)

	item := tile.Items[0]
	assert.Equal(t, "Test Stock", item.Label)
	assert.Equal(t, 1200.0, item.Value)
	require.NotNil(t, item.Invested)
	assert.Equal(t, 1005.0, *item.Invested)
	require.NotNil(t, item.GainAbs)
	assert.Equal(t, 195.0, *item.GainAbs)
	require.NotNil(t, item.GainPct)
	assert.Equal(t, 19.4, *item.GainPct)
	assert.Equal(t, 100.0, item.AllocationPct)
}

func TestComputeZeroCostPositionReportsZeroInvested(t *testing.T) {
	// Bonus shares acquired at no cost still report invested 0, with the
	// gain fields omitted since there is no basis to measure against.
	store := &fakeStore{
		trades: []domain.Transaction{
			trade(domain.TxnBuy, 1, "2026-01-10", 10, 0, 0),
		},
		prices: []domain.StockPrice{
			{StockID: 1, Price: 50, Currency: domain.CurrencyINR, AsOfDate: day("2026-08-20")},
		},
	}
	service := newTestService(store, testNow)

	payload, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range3M)
	require.NoError(t, err)

	var item *TileItem
	for i := range payload.Tiles {
		for j := range payload.Tiles[i].Items {
			item = &payload.Tiles[i].Items[j]
		}
	}
	require.NotNil(t, item)

	assert.Equal(t, 500.0, item.Value)
	require.NotNil(t, item.Invested)
	assert.Equal(t, 0.0, *item.Invested)
	assert.Nil(t, item.GainAbs)
	assert.Nil(t, item.GainPct)
}

func TestComputeMonthlyInvestments(t *testing.T) {
	store := &fakeStore{
		trades: []domain.Transaction{
			trade(domain.TxnBuy, 1, "2026-01-10", 10, 100, 0),
			{Action: domain.TxnDeposit, Date: day("2026-09-01"), Amount: 2000, Currency: domain.CurrencyINR},
		},
	}
	service := newTestService(store, testNow)

	payload, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range3M)
	require.NoError(t, err)

	// Only the deposit falls inside the current calendar month.
	assert.Equal(t, 2000.0, payload.Metrics.MonthlyInvestments)
}

func TestComputeSnapshotFallbackForUnpricedPosition(t *testing.T) {
	store := &fakeStore{
		trades: []domain.Transaction{
			trade(domain.TxnBuy, 1, "2026-01-10", 10, 100, 0),
		},
		holdingSnaps: []domain.HoldingSnapshot{
			{Label: "Test Stock", AssetCategory: domain.CategoryINDStocks, Value: 500, Currency: domain.CurrencyINR, AsOfDate: day("2026-08-15")},
		},
	}
	service := newTestService(store, testNow)

	payload, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range3M)
	require.NoError(t, err)

	// The snapshot stands in for the position once, not twice.
	assert.Equal(t, 500.0, payload.Metrics.Investments)
	assert.Empty(t, payload.Warnings)

	for _, tile := range payload.Tiles {
		if tile.Category != "IND Stocks" {
			continue
		}
		require.Len(t, tile.Items, 1)
		assert.Equal(t, 500.0, tile.Items[0].Value)
		assert.Nil(t, tile.Items[0].Invested, "cost basis is unknown for snapshot-sourced values")
		assert.Nil(t, tile.Items[0].GainPct)
	}
}

func TestComputeUnpricedPositionExcludedWithWarning(t *testing.T) {
	store := &fakeStore{
		trades: []domain.Transaction{
			trade(domain.TxnBuy, 1, "2026-01-10", 10, 100, 0),
		},
	}
	service := newTestService(store, testNow)

	payload, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range3M)
	require.NoError(t, err)

	assert.Equal(t, 0.0, payload.Metrics.Investments)
	assert.Contains(t, payload.Warnings, warnUnpricedHoldings)
}

func TestComputeMissingFxRateKeepsNativeValue(t *testing.T) {
	store := &fakeStore{
		holdingSnaps: []domain.HoldingSnapshot{
			{Label: "US Broker", AssetCategory: domain.CategoryUSStocks, Value: 500, Currency: domain.CurrencyUSD, AsOfDate: day("2026-08-15")},
		},
	}
	service := newTestService(store, testNow)

	payload, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range3M)
	require.NoError(t, err)

	assert.Equal(t, 500.0, payload.Metrics.Investments)
	assert.Contains(t, payload.Warnings, warnSnapshotFx)
}

func TestComputeConvertsSnapshotsIntoDisplayCurrency(t *testing.T) {
	store := &fakeStore{
		holdingSnaps: []domain.HoldingSnapshot{
			{Label: "US Broker", AssetCategory: domain.CategoryUSStocks, Value: 500, Currency: domain.CurrencyUSD, AsOfDate: day("2026-08-15")},
		},
		fxRates: []domain.FxRate{
			{FromCurrency: domain.CurrencyUSD, ToCurrency: domain.CurrencyINR, Rate: 84, AsOfDate: day("2026-08-01")},
		},
	}
	service := newTestService(store, testNow)

	payload, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range3M)
	require.NoError(t, err)

	assert.Equal(t, 42000.0, payload.Metrics.Investments)
	assert.Empty(t, payload.Warnings)
}

func TestComputeRealEstateSnapshotsRejected(t *testing.T) {
	store := &fakeStore{
		holdingSnaps: []domain.HoldingSnapshot{
			{Label: "Flat", AssetCategory: domain.CategoryRealEstate, Value: 999, Currency: domain.CurrencyINR, AsOfDate: day("2026-08-15")},
		},
		realEstate: []domain.RealEstateValuation{
			{PropertyName: "Flat", Value: 5000000, Currency: domain.CurrencyINR, AsOfDate: day("2026-05-01")},
		},
	}
	service := newTestService(store, testNow)

	payload, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range3M)
	require.NoError(t, err)

	// Properties are valued through valuation records only.
	assert.Equal(t, 5000000.0, payload.Metrics.RealEstate)
	assert.Equal(t, 0.0, payload.Metrics.Investments)
	assert.Contains(t, payload.Warnings, warnRealEstateSnapshot)
}

func TestComputeRealEstateLatestValuationPerProperty(t *testing.T) {
	store := &fakeStore{
		realEstate: []domain.RealEstateValuation{
			{PropertyName: "Flat", Value: 4000000, Currency: domain.CurrencyINR, AsOfDate: day("2025-05-01")},
			{PropertyName: "Flat", Value: 5000000, Currency: domain.CurrencyINR, AsOfDate: day("2026-05-01")},
			{PropertyName: "Plot", Value: 1500000, Currency: domain.CurrencyINR, AsOfDate: day("2026-01-01")},
		},
	}
	service := newTestService(store, testNow)

	payload, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range3M)
	require.NoError(t, err)

	assert.Equal(t, 6500000.0, payload.Metrics.RealEstate)
}

func TestComputeLiabilities(t *testing.T) {
	store := &fakeStore{
		liabilities: []domain.Liability{
			{ID: 1, Name: "Home Loan", Principal: 2000000, Status: domain.LiabilityActive},
			{ID: 2, Name: "Car Loan", Principal: 800000, Status: domain.LiabilityActive},
		},
		liabilitySnaps: []domain.LiabilitySnapshot{
			{LiabilityID: 1, Outstanding: 1500000, AsOfDate: day("2026-08-01")},
		},
	}
	service := newTestService(store, testNow)

	payload, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range3M)
	require.NoError(t, err)

	// Snapshot balance for the home loan, principal fallback for the car loan.
	assert.Equal(t, 2300000.0, payload.Metrics.Liabilities)
	assert.Equal(t, -2300000.0, payload.Metrics.NetWorth)
	assert.Contains(t, payload.Warnings, warnLiabilityPrincipal)
}

func TestComputeTrendBucketCounts(t *testing.T) {
	store := &fakeStore{}
	service := newTestService(store, testNow)

	counts := map[Range]int{Range1M: 5, Range3M: 3, Range1Y: 12, RangeAll: 5}
	for rng, want := range counts {
		payload, err := service.Compute(context.Background(), 1, domain.CurrencyINR, rng)
		require.NoError(t, err)
		assert.Len(t, payload.Trend.Points, want, "range %s", rng)
	}
}

func TestComputeTrendReflectsLedgerHistory(t *testing.T) {
	store := &fakeStore{
		trades: []domain.Transaction{
			trade(domain.TxnBuy, 1, "2026-01-10", 10, 100, 5),
		},
		prices: []domain.StockPrice{
			{StockID: 1, Price: 120, Currency: domain.CurrencyINR, AsOfDate: day("2026-08-20")},
		},
	}
	service := newTestService(store, testNow)

	payload, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range3M)
	require.NoError(t, err)

	require.Len(t, payload.Trend.Points, 3)
	// No price exists at the July and August month starts.
	assert.Equal(t, 0.0, payload.Trend.Points[0].Value)
	assert.Equal(t, 0.0, payload.Trend.Points[1].Value)
	assert.Equal(t, "2026-09-01", payload.Trend.Points[2].Date)
	assert.Equal(t, 1200.0, payload.Trend.Points[2].Value)
}

func TestComputeIsDeterministic(t *testing.T) {
	store := &fakeStore{
		trades: []domain.Transaction{
			trade(domain.TxnBuy, 1, "2026-01-10", 10, 100, 5),
			trade(domain.TxnBuy, 2, "2026-02-10", 4, 500, 0),
		},
		prices: []domain.StockPrice{
			{StockID: 1, Price: 120, Currency: domain.CurrencyINR, AsOfDate: day("2026-08-20")},
			{StockID: 2, Price: 450, Currency: domain.CurrencyINR, AsOfDate: day("2026-08-20")},
		},
		holdingSnaps: []domain.HoldingSnapshot{
			{Label: "PPF", AssetCategory: domain.CategoryRetirals, Value: 300000, Currency: domain.CurrencyINR, AsOfDate: day("2026-07-01")},
		},
	}
	service := newTestService(store, testNow)

	first, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range1Y)
	require.NoError(t, err)
	second, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range1Y)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeServesFromCache(t *testing.T) {
	store := &fakeStore{
		holdingSnaps: []domain.HoldingSnapshot{
			{Label: "PPF", AssetCategory: domain.CategoryRetirals, Value: 300000, Currency: domain.CurrencyINR, AsOfDate: day("2026-07-01")},
		},
	}
	service := NewService(store, cache.NewMemory(), 5*time.Minute, testLogger())
	service.now = func() time.Time { return testNow }

	first, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range3M)
	require.NoError(t, err)

	// New source data must not be visible until the entry is invalidated.
	store.holdingSnaps = append(store.holdingSnaps, domain.HoldingSnapshot{
		Label: "EPF", AssetCategory: domain.CategoryRetirals, Value: 100000, Currency: domain.CurrencyINR, AsOfDate: day("2026-08-01"),
	})

	second, err := service.Compute(context.Background(), 1, domain.CurrencyINR, Range3M)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveCurrency(t *testing.T) {
	store := &fakeStore{displayCurrency: domain.CurrencyUSD}
	service := newTestService(store, testNow)
	ctx := context.Background()

	assert.Equal(t, domain.CurrencyINR, service.ResolveCurrency(ctx, 1, "INR"), "explicit query wins")
	assert.Equal(t, domain.CurrencyUSD, service.ResolveCurrency(ctx, 1, ""), "stored preference next")
	assert.Equal(t, domain.CurrencyUSD, service.ResolveCurrency(ctx, 1, "EUR"), "unsupported code falls through")

	store.displayCurrency = ""
	assert.Equal(t, domain.CurrencyINR, service.ResolveCurrency(ctx, 1, ""), "INR is the default")
}

func TestComputeAnalytics(t *testing.T) {
	store := &fakeStore{
		trades: []domain.Transaction{
			trade(domain.TxnBuy, 1, "2025-01-10", 10, 100, 0),
		},
		prices: []domain.StockPrice{
			{StockID: 1, Price: 100, Currency: domain.CurrencyINR, AsOfDate: day("2025-01-15")},
			{StockID: 1, Price: 110, Currency: domain.CurrencyINR, AsOfDate: day("2026-03-15")},
		},
	}
	service := newTestService(store, testNow)

	analytics, err := service.ComputeAnalytics(context.Background(), 1, domain.CurrencyINR, Range1Y)
	require.NoError(t, err)

	assert.Equal(t, Range1Y, analytics.Range)
	assert.Equal(t, 12, analytics.Points)
	require.NotNil(t, analytics.MaxDrawdownPct)
	assert.Equal(t, 0.0, *analytics.MaxDrawdownPct)
}
