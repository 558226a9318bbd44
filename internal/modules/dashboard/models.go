package dashboard

import (
	"github.com/nravi/wealthtrack/internal/domain"
)

// Range selects the trend window for the dashboard
type Range string

const (
	Range1M  Range = "1M"
	Range3M  Range = "3M"
	Range1Y  Range = "1Y"
	RangeAll Range = "ALL"
)

// ParseRange returns the requested range, defaulting to 3M for anything
// unrecognised rather than erroring.
func ParseRange(value string) Range {
	switch Range(value) {
	case Range1M, Range3M, Range1Y, RangeAll:
		return Range(value)
	}
	return Range3M
}

// Metrics is the headline number block of the dashboard
type Metrics struct {
	RealEstate         float64 `json:"realEstate"`
	Liabilities        float64 `json:"liabilities"`
	Investments        float64 `json:"investments"`
	MonthlyInvestments float64 `json:"monthlyInvestments"`
	NetWorth           float64 `json:"netWorth"`
}

// TrendPoint is one net-worth sample on the trend series
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Trend is the bucketed net-worth series for the requested range
type Trend struct {
	Range  Range        `json:"range"`
	Points []TrendPoint `json:"points"`
}

// AllocationItem is one category slice of the allocation breakdown
type AllocationItem struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// Allocation is the category roll-up of the current snapshot
type Allocation struct {
	Total float64          `json:"total"`
	Items []AllocationItem `json:"items"`
}

// TileItem is one holding inside a category tile. Invested and the gain
// fields are nil when the holding's cost basis is unknown (snapshot-sourced
// values).
type TileItem struct {
	Label         string   `json:"label"`
	Value         float64  `json:"value"`
	Invested      *float64 `json:"invested"`
	GainAbs       *float64 `json:"gainAbs"`
	GainPct       *float64 `json:"gainPct"`
	AllocationPct float64  `json:"allocationPct"`
}

// Tile is a category grouping with per-holding detail
type Tile struct {
	Category string     `json:"category"`
	Total    float64    `json:"total"`
	Items    []TileItem `json:"items"`
}

// Payload is the full dashboard response
type Payload struct {
	Currency   domain.Currency `json:"currency"`
	Metrics    Metrics         `json:"metrics"`
	Trend      Trend           `json:"trend"`
	Allocation Allocation      `json:"allocation"`
	Tiles      []Tile          `json:"tiles"`
	Warnings   []string        `json:"warnings"`
}

// Analytics summarises the trend series for a range
type Analytics struct {
	Range           Range    `json:"range"`
	Points          int      `json:"points"`
	MeanGrowthPct   float64  `json:"meanGrowthPct"`
	GrowthStdDevPct float64  `json:"growthStdDevPct"`
	MaxDrawdownPct  *float64 `json:"maxDrawdownPct"`
}

// valuedItem is an internal holding valuation before it is distributed into
// allocation buckets and tiles.
type valuedItem struct {
	Label    string
	Value    float64
	Invested *float64
	GainAbs  *float64
	GainPct  *float64
	Category domain.AssetCategory
}

// warningSet collects degraded-data warnings, de-duplicated but in first-seen
// order so identical computations produce identical payloads.
type warningSet struct {
	seen map[string]struct{}
	list []string
}

func newWarningSet() *warningSet {
	return &warningSet{seen: make(map[string]struct{})}
}

func (w *warningSet) Add(message string) {
	if _, ok := w.seen[message]; ok {
		return
	}
	w.seen[message] = struct{}{}
	w.list = append(w.list, message)
}

// List returns the collected warnings, never nil.
func (w *warningSet) List() []string {
	if w.list == nil {
		return []string{}
	}
	return w.list
}

// Warning messages for degraded-data conditions. Each appears at most once
// per payload.
const (
	warnRealEstateSnapshot    = "Real estate snapshots detected; valuations take precedence."
	warnSnapshotFx            = "Missing FX rate for some snapshots. Using native currency values."
	warnStockPriceFx          = "Missing FX rate for some stock prices. Using native currency values."
	warnCostBasisFx           = "Missing FX rate for some stock cost basis values."
	warnRealEstateFx          = "Missing FX rate for some real estate valuations."
	warnLiabilityPrincipal    = "Missing liability snapshots for some entries; using principal."
	warnMonthlyInvestmentsFx  = "Missing FX rate for monthly investments."
	warnUnpricedHoldings      = "Some holdings have no price or snapshot and are excluded from totals."
)
