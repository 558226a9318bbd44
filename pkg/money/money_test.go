package money

import "testing"

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"Exact", 19.40, 19.40},
		{"Half up", 19.445, 19.45},
		{"Half away from zero negative", -19.445, -19.45},
		{"Truncate down", 100.004, 100.0},
		{"Round up", 100.006, 100.01},
		{"Zero", 0, 0},
		{"Float noise", 0.1 + 0.2, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round2(tt.in)
			if got != tt.want {
				t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundPtr2(t *testing.T) {
	if RoundPtr2(nil) != nil {
		t.Error("Expected nil passthrough")
	}

	v := 12.345
	got := RoundPtr2(&v)
	if got == nil || *got != 12.35 {
		t.Errorf("RoundPtr2(12.345) = %v, want 12.35", got)
	}
}
