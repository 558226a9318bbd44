package dashboard

import (
	"context"

	"github.com/nravi/wealthtrack/internal/domain"
	"github.com/nravi/wealthtrack/pkg/formulas"
	"github.com/nravi/wealthtrack/pkg/money"
)

// ComputeAnalytics summarises the trend series for a range: mean and standard
// deviation of bucket-over-bucket growth, and the worst peak-to-trough
// decline. It rides on Compute, so a fresh dashboard computation is reused
// through the cache.
func (s *Service) ComputeAnalytics(ctx context.Context, userID int64, currency domain.Currency, rng Range) (*Analytics, error) {
	payload, err := s.Compute(ctx, userID, currency, rng)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(payload.Trend.Points))
	for i, point := range payload.Trend.Points {
		values[i] = point.Value
	}

	returns := formulas.Returns(values)

	analytics := &Analytics{
		Range:           rng,
		Points:          len(values),
		MeanGrowthPct:   money.Round2(formulas.Mean(returns) * 100),
		GrowthStdDevPct: money.Round2(formulas.StdDev(returns) * 100),
	}

	if dd := formulas.MaxDrawdown(values); dd != nil {
		pct := money.Round2(*dd * 100)
		analytics.MaxDrawdownPct = &pct
	}

	return analytics, nil
}
