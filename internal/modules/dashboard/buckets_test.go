package dashboard

import (
	"testing"
	"time"
)

func TestBucketDates(t *testing.T) {
	end := time.Date(2026, time.September, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		rng   Range
		count int
		first string
		last  string
	}{
		{Range1M, 5, "2026-08-04", "2026-09-01"},
		{Range3M, 3, "2026-07-01", "2026-09-01"},
		{Range1Y, 12, "2025-10-01", "2026-09-01"},
		{RangeAll, 5, "2022-01-01", "2026-01-01"},
	}

	for _, tt := range tests {
		t.Run(string(tt.rng), func(t *testing.T) {
			dates := bucketDates(tt.rng, end)

			if len(dates) != tt.count {
				t.Fatalf("Expected %d buckets, got %d", tt.count, len(dates))
			}
			for i := 1; i < len(dates); i++ {
				if !dates[i].After(dates[i-1]) {
					t.Errorf("Buckets not ascending at index %d: %v then %v", i, dates[i-1], dates[i])
				}
			}
			if got := dates[0].Format("2006-01-02"); got != tt.first {
				t.Errorf("Expected first bucket %s, got %s", tt.first, got)
			}
			if got := dates[len(dates)-1].Format("2006-01-02"); got != tt.last {
				t.Errorf("Expected last bucket %s, got %s", tt.last, got)
			}
		})
	}
}

func TestBucketDatesMonthStartsNormalised(t *testing.T) {
	// January anchor: month subtraction has to roll into the previous year.
	end := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	dates := bucketDates(Range3M, end)

	want := []string{"2025-11-01", "2025-12-01", "2026-01-01"}
	for i, w := range want {
		if got := dates[i].Format("2006-01-02"); got != w {
			t.Errorf("Bucket %d: expected %s, got %s", i, w, got)
		}
	}
}

func TestStartOfMonth(t *testing.T) {
	got := startOfMonth(time.Date(2026, time.September, 17, 13, 45, 12, 0, time.UTC))
	want := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}
