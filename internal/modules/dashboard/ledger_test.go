package dashboard

import (
	"testing"
	"time"

	"github.com/nravi/wealthtrack/internal/domain"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int64) *int64     { return &v }

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func trade(action domain.TxnAction, stockID int64, date string, qty, unitPrice, fees float64) domain.Transaction {
	return domain.Transaction{
		StockID:   ptrI(stockID),
		Action:    action,
		Date:      day(date),
		Quantity:  ptrF(qty),
		UnitPrice: ptrF(unitPrice),
		Amount:    qty * unitPrice,
		Currency:  domain.CurrencyINR,
		Fees:      fees,
		Stock: &domain.Stock{
			ID:       stockID,
			Symbol:   "TEST",
			Name:     "Test Stock",
			Market:   domain.MarketIND,
			Currency: domain.CurrencyINR,
		},
	}
}

func TestReplayMovingAverageCostBasis(t *testing.T) {
	txns := []domain.Transaction{
		trade(domain.TxnBuy, 1, "2026-01-05", 10, 100, 0),
		trade(domain.TxnBuy, 1, "2026-02-05", 10, 200, 0),
		trade(domain.TxnSell, 1, "2026-03-05", 5, 250, 0),
	}

	positions := replay(txns, day("2026-12-31"))

	pos := positions[1]
	if pos == nil {
		t.Fatal("expected a position for stock 1")
	}
	if pos.Quantity != 15 {
		t.Errorf("Expected quantity 15, got %.2f", pos.Quantity)
	}
	// Average cost after both buys is 150; selling 5 removes 750.
	if pos.CostBasis != 2250 {
		t.Errorf("Expected cost basis 2250, got %.2f", pos.CostBasis)
	}
	// Invested counts buys only, untouched by the sell.
	if pos.Invested != 3000 {
		t.Errorf("Expected invested 3000, got %.2f", pos.Invested)
	}
}

func TestReplayFeesEnterCostBasis(t *testing.T) {
	txns := []domain.Transaction{
		trade(domain.TxnBuy, 1, "2026-01-05", 10, 100, 5),
	}

	pos := replay(txns, day("2026-12-31"))[1]
	if pos.CostBasis != 1005 {
		t.Errorf("Expected cost basis 1005, got %.2f", pos.CostBasis)
	}
	if pos.Invested != 1005 {
		t.Errorf("Expected invested 1005, got %.2f", pos.Invested)
	}
}

func TestReplaySellAgainstEmptyPositionIsNoOp(t *testing.T) {
	txns := []domain.Transaction{
		trade(domain.TxnSell, 1, "2026-01-05", 5, 100, 0),
		trade(domain.TxnBuy, 1, "2026-02-05", 10, 100, 0),
	}

	pos := replay(txns, day("2026-12-31"))[1]
	if pos.Quantity != 10 {
		t.Errorf("Expected quantity 10, got %.2f", pos.Quantity)
	}
	if pos.CostBasis != 1000 {
		t.Errorf("Expected cost basis 1000, got %.2f", pos.CostBasis)
	}
}

func TestReplayRespectsCutoff(t *testing.T) {
	txns := []domain.Transaction{
		trade(domain.TxnBuy, 1, "2026-01-05", 10, 100, 0),
		trade(domain.TxnBuy, 1, "2026-06-05", 10, 100, 0),
	}

	pos := replay(txns, day("2026-03-01"))[1]
	if pos.Quantity != 10 {
		t.Errorf("Expected quantity 10 at cutoff, got %.2f", pos.Quantity)
	}
}

func TestReplaySkipsTransactionsWithoutStock(t *testing.T) {
	txns := []domain.Transaction{
		{Action: domain.TxnBuy, Date: day("2026-01-05"), Amount: 500, Currency: domain.CurrencyINR},
	}

	positions := replay(txns, day("2026-12-31"))
	if len(positions) != 0 {
		t.Errorf("Expected empty book, got %d positions", len(positions))
	}
}

func TestLedgerCursorMatchesFullReplay(t *testing.T) {
	txns := []domain.Transaction{
		trade(domain.TxnBuy, 1, "2026-01-05", 10, 100, 0),
		trade(domain.TxnBuy, 2, "2026-02-05", 4, 50, 2),
		trade(domain.TxnSell, 1, "2026-03-05", 5, 120, 0),
		trade(domain.TxnBuy, 1, "2026-04-05", 3, 110, 1),
	}

	cursor := newLedgerCursor(txns)
	cutoffs := []time.Time{day("2026-01-31"), day("2026-02-28"), day("2026-03-31"), day("2026-04-30")}

	for _, cutoff := range cutoffs {
		incremental := cursor.advanceTo(cutoff)
		fresh := replay(txns, cutoff)

		if len(incremental) != len(fresh) {
			t.Fatalf("cutoff %s: book sizes differ (%d vs %d)", cutoff.Format("2006-01-02"), len(incremental), len(fresh))
		}
		for id, want := range fresh {
			got := incremental[id]
			if got == nil {
				t.Fatalf("cutoff %s: missing position for stock %d", cutoff.Format("2006-01-02"), id)
			}
			if got.Quantity != want.Quantity || got.CostBasis != want.CostBasis || got.Invested != want.Invested {
				t.Errorf("cutoff %s stock %d: incremental %+v != fresh %+v", cutoff.Format("2006-01-02"), id, got, want)
			}
		}
	}
}
