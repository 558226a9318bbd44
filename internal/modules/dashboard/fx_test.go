package dashboard

import (
	"context"
	"testing"

	"github.com/nravi/wealthtrack/internal/domain"
)

func TestFxConverterSameCurrencySkipsLookup(t *testing.T) {
	store := &fakeStore{}
	fx := newFxConverter(store, 1, domain.CurrencyINR)

	value, ok, err := fx.Convert(context.Background(), 100, domain.CurrencyINR, day("2026-09-01"))
	if err != nil {
		t.Fatal(err)
	}
	if !ok || value != 100 {
		t.Errorf("Expected 100/ok, got %.2f/%v", value, ok)
	}
	if store.fxLookups != 0 {
		t.Errorf("Expected no store lookups, got %d", store.fxLookups)
	}
}

func TestFxConverterUsesLatestRateAtOrBeforeDate(t *testing.T) {
	store := &fakeStore{
		fxRates: []domain.FxRate{
			{FromCurrency: domain.CurrencyUSD, ToCurrency: domain.CurrencyINR, Rate: 80, AsOfDate: day("2026-01-01")},
			{FromCurrency: domain.CurrencyUSD, ToCurrency: domain.CurrencyINR, Rate: 84, AsOfDate: day("2026-06-01")},
		},
	}
	fx := newFxConverter(store, 1, domain.CurrencyINR)

	value, ok, err := fx.Convert(context.Background(), 10, domain.CurrencyUSD, day("2026-03-15"))
	if err != nil {
		t.Fatal(err)
	}
	if !ok || value != 800 {
		t.Errorf("Expected 800 via the January rate, got %.2f/%v", value, ok)
	}

	value, _, err = fx.Convert(context.Background(), 10, domain.CurrencyUSD, day("2026-07-01"))
	if err != nil {
		t.Fatal(err)
	}
	if value != 840 {
		t.Errorf("Expected 840 via the June rate, got %.2f", value)
	}
}

func TestFxConverterMissingRatePassesThrough(t *testing.T) {
	store := &fakeStore{}
	fx := newFxConverter(store, 1, domain.CurrencyINR)

	value, ok, err := fx.Convert(context.Background(), 250, domain.CurrencyUSD, day("2026-09-01"))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Expected ok=false for a missing rate")
	}
	if value != 250 {
		t.Errorf("Expected the amount unconverted, got %.2f", value)
	}
}

func TestFxConverterMemoizesPerDay(t *testing.T) {
	store := &fakeStore{
		fxRates: []domain.FxRate{
			{FromCurrency: domain.CurrencyUSD, ToCurrency: domain.CurrencyINR, Rate: 84, AsOfDate: day("2026-01-01")},
		},
	}
	fx := newFxConverter(store, 1, domain.CurrencyINR)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := fx.Convert(ctx, 10, domain.CurrencyUSD, day("2026-05-10")); err != nil {
			t.Fatal(err)
		}
	}
	if store.fxLookups != 1 {
		t.Errorf("Expected 1 lookup for repeated same-day conversions, got %d", store.fxLookups)
	}

	if _, _, err := fx.Convert(ctx, 10, domain.CurrencyUSD, day("2026-05-11")); err != nil {
		t.Fatal(err)
	}
	if store.fxLookups != 2 {
		t.Errorf("Expected a second lookup for a new day, got %d", store.fxLookups)
	}
}
