package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nravi/wealthtrack/internal/domain"
	"github.com/nravi/wealthtrack/pkg/money"
	"github.com/nravi/wealthtrack/pkg/timeline"
)

// buildTrend produces one net-worth point per bucket date. The ledger is
// replayed incrementally across the ascending buckets, so the transaction
// list is walked exactly once; prices, snapshots, valuations and liability
// balances are resolved "as of" each bucket. Missing rates degrade silently
// here: the current-snapshot pass has already warned about them.
func (s *Service) buildTrend(ctx context.Context, rng Range, now time.Time, src *sources, fx *fxConverter) ([]TrendPoint, error) {
	buckets := bucketDates(rng, now)
	cursor := newLedgerCursor(src.trades)
	history := priceHistory(src.prices)

	points := make([]TrendPoint, 0, len(buckets))

	for _, bucket := range buckets {
		positions := cursor.advanceTo(bucket)

		assets := 0.0

		for _, stockID := range sortedStockIDs(positions) {
			pos := positions[stockID]
			if pos.Quantity <= 0 {
				continue
			}
			price, ok := timeline.LatestAt(history[stockID],
				func(p domain.StockPrice) time.Time { return p.AsOfDate }, bucket)
			if !ok {
				continue
			}
			value, _, err := fx.Convert(ctx, price.Price*pos.Quantity, price.Currency, bucket)
			if err != nil {
				return nil, err
			}
			assets += value
		}

		snaps := timeline.LatestBy(src.holdingSnaps, holdingSnapshotKey,
			func(snap domain.HoldingSnapshot) time.Time { return snap.AsOfDate }, bucket)
		for _, snap := range snaps {
			value, _, err := fx.Convert(ctx, snap.Value, snap.Currency, snap.AsOfDate)
			if err != nil {
				return nil, err
			}
			assets += value
		}

		valuations := timeline.LatestBy(src.realEstate,
			func(v domain.RealEstateValuation) string { return v.PropertyName },
			func(v domain.RealEstateValuation) time.Time { return v.AsOfDate }, bucket)
		for _, valuation := range valuations {
			value, _, err := fx.Convert(ctx, valuation.Value, valuation.Currency, valuation.AsOfDate)
			if err != nil {
				return nil, err
			}
			assets += value
		}

		liabilitySnaps := timeline.LatestBy(src.liabilitySnaps,
			func(snap domain.LiabilitySnapshot) string { return fmt.Sprintf("%d", snap.LiabilityID) },
			func(snap domain.LiabilitySnapshot) time.Time { return snap.AsOfDate }, bucket)
		liabilities := resolveLiabilities(src.liabilities, liabilitySnaps, nil)

		points = append(points, TrendPoint{
			Date:  bucket.Format("2006-01-02"),
			Value: money.Round2(assets - liabilities),
		})
	}

	return points, nil
}

// priceHistory groups prices per stock, sorted by ascending as-of date for
// binary-searched "latest at or before bucket" lookups.
func priceHistory(prices []domain.StockPrice) map[int64][]domain.StockPrice {
	history := make(map[int64][]domain.StockPrice)
	for _, price := range prices {
		history[price.StockID] = append(history[price.StockID], price)
	}
	for _, list := range history {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].AsOfDate.Before(list[j].AsOfDate)
		})
	}
	return history
}
