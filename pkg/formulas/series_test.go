package formulas

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestReturns(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{"Steady growth", []float64{100, 110, 121}, []float64{0.1, 0.1}},
		{"Decline", []float64{100, 50}, []float64{-0.5}},
		{"Zero base skipped", []float64{0, 100, 150}, []float64{0, 0.5}},
		{"Too short", []float64{100}, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Returns(tt.values)
			if len(got) != len(tt.want) {
				t.Fatalf("Returns() length = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !almostEqual(got[i], tt.want[i]) {
					t.Errorf("Returns()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMaxDrawdown(t *testing.T) {
	t.Run("Single dip", func(t *testing.T) {
		dd := MaxDrawdown([]float64{100, 80, 120})
		if dd == nil || !almostEqual(*dd, 0.2) {
			t.Errorf("Expected 0.2 drawdown, got %v", dd)
		}
	})

	t.Run("Monotonic growth has zero drawdown", func(t *testing.T) {
		dd := MaxDrawdown([]float64{10, 20, 30})
		if dd == nil || *dd != 0 {
			t.Errorf("Expected 0 drawdown, got %v", dd)
		}
	})

	t.Run("Drawdown measured from later peak", func(t *testing.T) {
		dd := MaxDrawdown([]float64{100, 90, 200, 100})
		if dd == nil || !almostEqual(*dd, 0.5) {
			t.Errorf("Expected 0.5 drawdown, got %v", dd)
		}
	})

	t.Run("Too short", func(t *testing.T) {
		if dd := MaxDrawdown([]float64{100}); dd != nil {
			t.Errorf("Expected nil, got %v", dd)
		}
	})
}

func TestMeanAndStdDev(t *testing.T) {
	if got := Mean([]float64{1, 2, 3}); !almostEqual(got, 2) {
		t.Errorf("Mean = %v, want 2", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := StdDev([]float64{5}); got != 0 {
		t.Errorf("StdDev of one value = %v, want 0", got)
	}
	if got := StdDev([]float64{2, 4}); !almostEqual(got, math.Sqrt2) {
		t.Errorf("StdDev = %v, want sqrt(2)", got)
	}
}
