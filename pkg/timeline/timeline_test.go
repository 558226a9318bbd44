package timeline

import (
	"testing"
	"time"
)

type record struct {
	key  string
	date time.Time
}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestLatestBy(t *testing.T) {
	// Descending by date, the ordering repositories return.
	records := []record{
		{"gold", day(20)},
		{"ppf", day(18)},
		{"gold", day(10)},
		{"ppf", day(5)},
		{"cash", day(2)},
	}

	key := func(r record) string { return r.key }
	asOf := func(r record) time.Time { return r.date }

	t.Run("Cutoff after everything", func(t *testing.T) {
		got := LatestBy(records, key, asOf, day(25))
		if len(got) != 3 {
			t.Fatalf("Expected 3 records, got %d", len(got))
		}
		if got[0].key != "gold" || !got[0].date.Equal(day(20)) {
			t.Errorf("Expected latest gold entry first, got %+v", got[0])
		}
	})

	t.Run("Cutoff excludes newest entries", func(t *testing.T) {
		got := LatestBy(records, key, asOf, day(12))
		if len(got) != 3 {
			t.Fatalf("Expected 3 records, got %d", len(got))
		}
		if !got[0].date.Equal(day(10)) {
			t.Errorf("Expected gold as of day 10, got %v", got[0].date)
		}
	})

	t.Run("Cutoff before everything", func(t *testing.T) {
		got := LatestBy(records, key, asOf, day(1))
		if len(got) != 0 {
			t.Errorf("Expected no records, got %d", len(got))
		}
	})

	t.Run("Cutoff on exact date is inclusive", func(t *testing.T) {
		got := LatestBy(records, key, asOf, day(20))
		if len(got) != 3 || !got[0].date.Equal(day(20)) {
			t.Errorf("Expected day-20 gold entry included, got %+v", got)
		}
	})

	t.Run("Tie resolves to first occurrence", func(t *testing.T) {
		tied := []record{{"gold", day(7)}, {"gold", day(7)}}
		got := LatestBy(tied, key, asOf, day(9))
		if len(got) != 1 {
			t.Fatalf("Expected 1 record, got %d", len(got))
		}
	})
}

func TestLatestAt(t *testing.T) {
	// Ascending by date, the ordering the price history uses.
	asc := []record{
		{"p", day(3)},
		{"p", day(9)},
		{"p", day(15)},
	}
	asOf := func(r record) time.Time { return r.date }

	tests := []struct {
		name     string
		cutoff   time.Time
		wantOK   bool
		wantDate time.Time
	}{
		{"Between entries", day(10), true, day(9)},
		{"Exact match inclusive", day(9), true, day(9)},
		{"After all", day(30), true, day(15)},
		{"Before all", day(1), false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LatestAt(asc, asOf, tt.cutoff)
			if ok != tt.wantOK {
				t.Fatalf("LatestAt ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.date.Equal(tt.wantDate) {
				t.Errorf("LatestAt date = %v, want %v", got.date, tt.wantDate)
			}
		})
	}

	t.Run("Empty slice", func(t *testing.T) {
		if _, ok := LatestAt(nil, asOf, day(10)); ok {
			t.Error("Expected no result for empty input")
		}
	})
}
