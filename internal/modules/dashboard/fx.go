package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/nravi/wealthtrack/internal/domain"
)

// fxConverter converts amounts into the display currency using the latest
// user-entered rate at or before each value's date. Resolved rates are
// memoized per (from, to, day) for the lifetime of one computation; the memo
// never crosses requests.
type fxConverter struct {
	store   Store
	userID  int64
	display domain.Currency
	memo    map[string]float64
}

func newFxConverter(store Store, userID int64, display domain.Currency) *fxConverter {
	return &fxConverter{
		store:   store,
		userID:  userID,
		display: display,
		memo:    make(map[string]float64),
	}
}

// Convert returns amount expressed in the display currency. ok=false means no
// rate exists for the pair at that date and the amount is passed through
// unconverted; the caller decides which warning that deserves. Same-currency
// conversions short-circuit to rate 1 with no lookup and no memo entry.
func (c *fxConverter) Convert(ctx context.Context, amount float64, from domain.Currency, asOf time.Time) (float64, bool, error) {
	if from == c.display {
		return amount, true, nil
	}

	key := fmt.Sprintf("%s-%s-%s", from, c.display, asOf.Format("2006-01-02"))
	if rate, ok := c.memo[key]; ok {
		return amount * rate, true, nil
	}

	rate, err := c.store.LatestFxRate(ctx, c.userID, from, c.display, asOf)
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up FX rate %s: %w", key, err)
	}
	if rate == nil {
		return amount, false, nil
	}

	c.memo[key] = rate.Rate
	return amount * rate.Rate, true, nil
}
