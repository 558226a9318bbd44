package domain

import "testing"

// Stored enum codes are part of the database contract and must not drift.
func TestGoalStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status GoalStatus
		want   GoalStatus
	}{
		{"Active", GoalActive, 1},
		{"Achieved", GoalAchieved, 2},
		{"Paused", GoalPaused, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.status != tt.want {
				t.Errorf("%s = %d, want %d", tt.name, tt.status, tt.want)
			}
		})
	}
}

func TestTxnActionCodes(t *testing.T) {
	if TxnBuy != 1 {
		t.Errorf("TxnBuy = %d, want 1", TxnBuy)
	}
	if TxnLiabilityPayment != 8 {
		t.Errorf("TxnLiabilityPayment = %d, want 8", TxnLiabilityPayment)
	}
}
