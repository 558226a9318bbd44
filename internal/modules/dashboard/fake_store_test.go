package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/nravi/wealthtrack/internal/domain"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// fakeStore is an in-memory Store for tests. Listings honour the same
// ordering contracts as the SQL repository.
type fakeStore struct {
	trades          []domain.Transaction
	prices          []domain.StockPrice
	holdingSnaps    []domain.HoldingSnapshot
	liabilitySnaps  []domain.LiabilitySnapshot
	realEstate      []domain.RealEstateValuation
	liabilities     []domain.Liability
	fxRates         []domain.FxRate
	displayCurrency domain.Currency

	fxLookups int
}

func (f *fakeStore) TradeTransactions(_ context.Context, _ int64) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, txn := range f.trades {
		if txn.Action == domain.TxnBuy || txn.Action == domain.TxnSell {
			out = append(out, txn)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeStore) InvestmentTransactionsSince(_ context.Context, _ int64, from time.Time) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, txn := range f.trades {
		if txn.Action != domain.TxnBuy && txn.Action != domain.TxnDeposit {
			continue
		}
		if txn.Date.Before(from) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

func (f *fakeStore) StockPrices(_ context.Context, _ int64, asOf time.Time) ([]domain.StockPrice, error) {
	var out []domain.StockPrice
	for _, p := range f.prices {
		if !p.AsOfDate.After(asOf) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AsOfDate.After(out[j].AsOfDate) })
	return out, nil
}

func (f *fakeStore) HoldingSnapshots(_ context.Context, _ int64, asOf time.Time) ([]domain.HoldingSnapshot, error) {
	var out []domain.HoldingSnapshot
	for _, s := range f.holdingSnaps {
		if !s.AsOfDate.After(asOf) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AsOfDate.After(out[j].AsOfDate) })
	return out, nil
}

func (f *fakeStore) LiabilitySnapshots(_ context.Context, _ int64, asOf time.Time) ([]domain.LiabilitySnapshot, error) {
	var out []domain.LiabilitySnapshot
	for _, s := range f.liabilitySnaps {
		if !s.AsOfDate.After(asOf) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AsOfDate.After(out[j].AsOfDate) })
	return out, nil
}

func (f *fakeStore) RealEstateValuations(_ context.Context, _ int64, asOf time.Time) ([]domain.RealEstateValuation, error) {
	var out []domain.RealEstateValuation
	for _, v := range f.realEstate {
		if !v.AsOfDate.After(asOf) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AsOfDate.After(out[j].AsOfDate) })
	return out, nil
}

func (f *fakeStore) Liabilities(_ context.Context, _ int64) ([]domain.Liability, error) {
	return f.liabilities, nil
}

func (f *fakeStore) LatestFxRate(_ context.Context, _ int64, from, to domain.Currency, asOf time.Time) (*domain.FxRate, error) {
	f.fxLookups++

	var best *domain.FxRate
	for i := range f.fxRates {
		rate := f.fxRates[i]
		if rate.FromCurrency != from || rate.ToCurrency != to || rate.AsOfDate.After(asOf) {
			continue
		}
		if best == nil || rate.AsOfDate.After(best.AsOfDate) {
			best = &f.fxRates[i]
		}
	}
	return best, nil
}

func (f *fakeStore) DisplayCurrency(_ context.Context, _ int64) (domain.Currency, error) {
	return f.displayCurrency, nil
}

// newTestService wires a service around the fake store with a fixed clock and
// no cache.
func newTestService(store Store, now time.Time) *Service {
	s := NewService(store, nil, 0, testLogger())
	s.now = func() time.Time { return now }
	return s
}
