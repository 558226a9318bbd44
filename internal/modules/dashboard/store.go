package dashboard

import (
	"context"
	"time"

	"github.com/nravi/wealthtrack/internal/domain"
)

// Store is the read surface the aggregator needs. The SQL repository
// implements it in production; tests substitute an in-memory fake. The
// aggregator never writes.
type Store interface {
	// TradeTransactions returns the user's BUY/SELL transactions with the
	// stock join populated, ordered by ascending date.
	TradeTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error)

	// InvestmentTransactionsSince returns BUY and DEPOSIT transactions dated
	// at or after from.
	InvestmentTransactionsSince(ctx context.Context, userID int64, from time.Time) ([]domain.Transaction, error)

	// The as-of listings return records dated at or before asOf, ordered by
	// descending as-of date.
	StockPrices(ctx context.Context, userID int64, asOf time.Time) ([]domain.StockPrice, error)
	HoldingSnapshots(ctx context.Context, userID int64, asOf time.Time) ([]domain.HoldingSnapshot, error)
	LiabilitySnapshots(ctx context.Context, userID int64, asOf time.Time) ([]domain.LiabilitySnapshot, error)
	RealEstateValuations(ctx context.Context, userID int64, asOf time.Time) ([]domain.RealEstateValuation, error)

	Liabilities(ctx context.Context, userID int64) ([]domain.Liability, error)

	// LatestFxRate returns the most recent rate for the pair dated at or
	// before asOf, or nil when the user has never recorded one.
	LatestFxRate(ctx context.Context, userID int64, from, to domain.Currency, asOf time.Time) (*domain.FxRate, error)

	// DisplayCurrency returns the user's preferred display currency.
	DisplayCurrency(ctx context.Context, userID int64) (domain.Currency, error)
}
