package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nravi/wealthtrack/internal/cache"
	"github.com/nravi/wealthtrack/internal/domain"
	"github.com/nravi/wealthtrack/pkg/money"
	"github.com/nravi/wealthtrack/pkg/timeline"
)

// Service computes dashboard payloads. One computation is a pure function of
// the source records and the evaluation instant; the cache in front of it is
// a side-channel and the service works identically without one.
type Service struct {
	store    Store
	cache    cache.Cache
	cacheTTL time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates a dashboard service. cache may be nil.
func NewService(store Store, c cache.Cache, cacheTTL time.Duration, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log.With().Str("service", "dashboard").Logger(),
		now:      time.Now,
	}
}

// ResolveCurrency picks the display currency: explicit query value, then the
// user's stored preference, then INR.
func (s *Service) ResolveCurrency(ctx context.Context, userID int64, raw string) domain.Currency {
	if cur, ok := domain.ParseCurrency(raw); ok {
		return cur
	}
	if cur, err := s.store.DisplayCurrency(ctx, userID); err == nil && cur != "" {
		return cur
	}
	return domain.CurrencyINR
}

// sources holds everything one computation reads, fetched up front.
type sources struct {
	trades         []domain.Transaction
	monthTxns      []domain.Transaction
	prices         []domain.StockPrice
	holdingSnaps   []domain.HoldingSnapshot
	liabilitySnaps []domain.LiabilitySnapshot
	realEstate     []domain.RealEstateValuation
	liabilities    []domain.Liability
}

// Compute builds the dashboard payload for one user, display currency and
// trend range. Degraded source data (missing rates, prices, snapshots) is
// reported through payload warnings; only infrastructure failures return an
// error.
func (s *Service) Compute(ctx context.Context, userID int64, currency domain.Currency, rng Range) (*Payload, error) {
	key := cache.DashboardKey(userID, string(currency), string(rng))
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var cached Payload
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			s.log.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
		}
	}

	now := s.now()

	src, err := s.fetchSources(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	fx := newFxConverter(s.store, userID, currency)
	warnings := newWarningSet()

	// Current snapshot valuations.
	snapshotItems, err := s.resolveSnapshots(ctx, src.holdingSnaps, now, fx, warnings)
	if err != nil {
		return nil, err
	}

	positions := replay(src.trades, now)

	stockItems, stocksTotal, usedFallback, err := s.resolveStocks(ctx, positions, src.prices, snapshotItems, now, fx, warnings)
	if err != nil {
		return nil, err
	}

	// Snapshot entries consumed as a stock fallback must not be counted again
	// under their own category.
	effectiveSnapshots := snapshotItems[:0:0]
	for _, item := range snapshotItems {
		if isStockCategory(item.Category) && usedFallback[item.Label] {
			continue
		}
		effectiveSnapshots = append(effectiveSnapshots, item)
	}

	snapshotsTotal := 0.0
	for _, item := range effectiveSnapshots {
		snapshotsTotal += item.Value
	}

	realEstateTotal, err := s.resolveRealEstate(ctx, src.realEstate, now, fx, warnings)
	if err != nil {
		return nil, err
	}

	liabilityTotal := resolveLiabilities(src.liabilities, timeline.LatestBy(
		src.liabilitySnaps,
		func(snap domain.LiabilitySnapshot) string { return fmt.Sprintf("%d", snap.LiabilityID) },
		func(snap domain.LiabilitySnapshot) time.Time { return snap.AsOfDate },
		now,
	), warnings)

	assetTotal := stocksTotal + snapshotsTotal + realEstateTotal

	monthlyInvestments, err := s.resolveMonthlyInvestments(ctx, src.monthTxns, fx, warnings)
	if err != nil {
		return nil, err
	}

	trendPoints, err := s.buildTrend(ctx, rng, now, src, fx)
	if err != nil {
		return nil, err
	}

	payload := &Payload{
		Currency: currency,
		Metrics: Metrics{
			RealEstate:         money.Round2(realEstateTotal),
			Liabilities:        money.Round2(liabilityTotal),
			Investments:        money.Round2(assetTotal - realEstateTotal),
			MonthlyInvestments: money.Round2(monthlyInvestments),
			NetWorth:           money.Round2(assetTotal - liabilityTotal),
		},
		Trend:      Trend{Range: rng, Points: trendPoints},
		Allocation: buildAllocation(stockItems, effectiveSnapshots, realEstateTotal),
		Tiles:      buildTiles(stockItems, effectiveSnapshots),
		Warnings:   warnings.List(),
	}

	if s.cache != nil {
		if raw, err := json.Marshal(payload); err == nil {
			s.cache.Set(ctx, key, raw, s.cacheTTL)
		}
	}

	return payload, nil
}

// fetchSources issues the independent reads concurrently; computation starts
// once all of them have landed.
func (s *Service) fetchSources(ctx context.Context, userID int64, now time.Time) (*sources, error) {
	src := &sources{}
	monthStart := startOfMonth(now)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		src.trades, err = s.store.TradeTransactions(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		src.monthTxns, err = s.store.InvestmentTransactionsSince(gctx, userID, monthStart)
		return err
	})
	g.Go(func() (err error) {
		src.prices, err = s.store.StockPrices(gctx, userID, now)
		return err
	})
	g.Go(func() (err error) {
		src.holdingSnaps, err = s.store.HoldingSnapshots(gctx, userID, now)
		return err
	})
	g.Go(func() (err error) {
		src.liabilitySnaps, err = s.store.LiabilitySnapshots(gctx, userID, now)
		return err
	})
	g.Go(func() (err error) {
		src.realEstate, err = s.store.RealEstateValuations(gctx, userID, now)
		return err
	})
	g.Go(func() (err error) {
		src.liabilities, err = s.store.Liabilities(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch dashboard sources: %w", err)
	}
	return src, nil
}

// resolveSnapshots values the latest holding snapshot per label/category/
// account. Real-estate-category snapshots are rejected here: properties are
// valued through their own valuation records and must not be double-counted.
func (s *Service) resolveSnapshots(ctx context.Context, snaps []domain.HoldingSnapshot, asOf time.Time, fx *fxConverter, warnings *warningSet) ([]valuedItem, error) {
	latest := timeline.LatestBy(snaps, holdingSnapshotKey,
		func(snap domain.HoldingSnapshot) time.Time { return snap.AsOfDate }, asOf)

	var items []valuedItem
	for _, snap := range latest {
		if snap.AssetCategory == domain.CategoryRealEstate {
			warnings.Add(warnRealEstateSnapshot)
			continue
		}

		value, ok, err := fx.Convert(ctx, snap.Value, snap.Currency, snap.AsOfDate)
		if err != nil {
			return nil, err
		}
		if !ok {
			warnings.Add(warnSnapshotFx)
		}

		items = append(items, valuedItem{
			Label:    snap.Label,
			Value:    money.Round2(value),
			Category: snap.AssetCategory,
		})
	}
	return items, nil
}

// resolveStocks values every live position: price times quantity when a price
// exists, else a same-label snapshot stands in (cost basis unknown), else the
// position is excluded with a warning.
func (s *Service) resolveStocks(
	ctx context.Context,
	positions book,
	prices []domain.StockPrice,
	snapshotItems []valuedItem,
	asOf time.Time,
	fx *fxConverter,
	warnings *warningSet,
) (items []valuedItem, total float64, usedFallback map[string]bool, err error) {
	latestPrices := timeline.LatestBy(prices,
		func(p domain.StockPrice) string { return fmt.Sprintf("%d", p.StockID) },
		func(p domain.StockPrice) time.Time { return p.AsOfDate }, asOf)

	priceByStock := make(map[int64]domain.StockPrice, len(latestPrices))
	for _, p := range latestPrices {
		priceByStock[p.StockID] = p
	}

	// Snapshots from the stock categories can stand in for positions without
	// a recorded price, matched by label.
	fallbacks := make(map[string]valuedItem)
	for _, item := range snapshotItems {
		if isStockCategory(item.Category) {
			fallbacks[item.Label] = item
		}
	}

	usedFallback = make(map[string]bool)

	for _, stockID := range sortedStockIDs(positions) {
		pos := positions[stockID]
		if pos.Quantity <= 0 {
			continue
		}

		price, hasPrice := priceByStock[stockID]
		if !hasPrice {
			fallback, ok := fallbacks[pos.StockName]
			if !ok {
				warnings.Add(warnUnpricedHoldings)
				continue
			}
			usedFallback[fallback.Label] = true
			total += fallback.Value
			items = append(items, valuedItem{
				Label:    pos.StockName,
				Value:    money.Round2(fallback.Value),
				Category: stockCategory(pos.Market),
			})
			continue
		}

		value, ok, err := fx.Convert(ctx, price.Price*pos.Quantity, price.Currency, price.AsOfDate)
		if err != nil {
			return nil, 0, nil, err
		}
		if !ok {
			warnings.Add(warnStockPriceFx)
		}

		invested, ok, err := fx.Convert(ctx, pos.Invested, price.Currency, price.AsOfDate)
		if err != nil {
			return nil, 0, nil, err
		}
		if !ok {
			warnings.Add(warnCostBasisFx)
		}

		total += value

		item := valuedItem{
			Label:    pos.StockName,
			Value:    money.Round2(value),
			Category: stockCategory(pos.Market),
		}
		item.Invested = money.RoundPtr2(&invested)
		if invested != 0 {
			gainAbs := value - invested
			gainPct := gainAbs / invested * 100
			item.GainAbs = money.RoundPtr2(&gainAbs)
			item.GainPct = money.RoundPtr2(&gainPct)
		}
		items = append(items, item)
	}

	return items, total, usedFallback, nil
}

// resolveRealEstate sums the latest valuation per distinct property.
func (s *Service) resolveRealEstate(ctx context.Context, valuations []domain.RealEstateValuation, asOf time.Time, fx *fxConverter, warnings *warningSet) (float64, error) {
	latest := timeline.LatestBy(valuations,
		func(v domain.RealEstateValuation) string { return v.PropertyName },
		func(v domain.RealEstateValuation) time.Time { return v.AsOfDate }, asOf)

	total := 0.0
	for _, valuation := range latest {
		value, ok, err := fx.Convert(ctx, valuation.Value, valuation.Currency, valuation.AsOfDate)
		if err != nil {
			return 0, err
		}
		if !ok {
			warnings.Add(warnRealEstateFx)
		}
		total += value
	}
	return total, nil
}

// resolveLiabilities sums, per liability, the latest outstanding balance or
// the static principal as a warned fallback. Balances are recorded in display
// terms and are not FX-converted.
func resolveLiabilities(liabilities []domain.Liability, latestSnaps []domain.LiabilitySnapshot, warnings *warningSet) float64 {
	outstanding := make(map[int64]float64, len(latestSnaps))
	for _, snap := range latestSnaps {
		outstanding[snap.LiabilityID] = snap.Outstanding
	}

	total := 0.0
	for _, liability := range liabilities {
		if value, ok := outstanding[liability.ID]; ok {
			total += value
		} else if liability.Principal != 0 {
			total += liability.Principal
			if warnings != nil {
				warnings.Add(warnLiabilityPrincipal)
			}
		}
	}
	return total
}

// resolveMonthlyInvestments converts and sums this month's BUY and DEPOSIT
// amounts.
func (s *Service) resolveMonthlyInvestments(ctx context.Context, txns []domain.Transaction, fx *fxConverter, warnings *warningSet) (float64, error) {
	total := 0.0
	for _, txn := range txns {
		amount, ok, err := fx.Convert(ctx, txn.Amount, txn.Currency, txn.Date)
		if err != nil {
			return 0, err
		}
		if !ok {
			warnings.Add(warnMonthlyInvestmentsFx)
		}
		total += amount
	}
	return total, nil
}

func holdingSnapshotKey(snap domain.HoldingSnapshot) string {
	accountID := int64(0)
	if snap.PlatformAccountID != nil {
		accountID = *snap.PlatformAccountID
	}
	return fmt.Sprintf("%s-%d-%d", snap.Label, snap.AssetCategory, accountID)
}

func isStockCategory(category domain.AssetCategory) bool {
	return category == domain.CategoryUSStocks || category == domain.CategoryINDStocks
}

func stockCategory(market domain.StockMarket) domain.AssetCategory {
	if market == domain.MarketUS {
		return domain.CategoryUSStocks
	}
	return domain.CategoryINDStocks
}

// sortedStockIDs fixes the iteration order over a book so warnings and item
// construction are deterministic across runs.
func sortedStockIDs(b book) []int64 {
	ids := make([]int64, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
