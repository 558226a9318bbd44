package dashboard

import (
	"time"

	"github.com/nravi/wealthtrack/internal/domain"
)

// position is the running state of one instrument reconstructed from the
// ledger. Invested accumulates every BUY and is never reduced by SELLs: the
// dashboard reports "total ever invested", not realized P&L.
type position struct {
	Quantity  float64
	CostBasis float64
	Invested  float64
	StockName string
	Market    domain.StockMarket
}

// book maps stock ID to its replayed position.
type book map[int64]*position

// apply folds one transaction into the book. Cost basis moves at the
// position's average cost on SELL; a SELL against a non-positive quantity is
// a no-op since short positions are not modeled. Transactions without a
// stock reference are skipped.
func (b book) apply(txn domain.Transaction) {
	if txn.StockID == nil || txn.Stock == nil {
		return
	}
	if txn.Action != domain.TxnBuy && txn.Action != domain.TxnSell {
		return
	}

	pos := b[*txn.StockID]
	if pos == nil {
		pos = &position{
			StockName: txn.Stock.Name,
			Market:    txn.Stock.Market,
		}
		b[*txn.StockID] = pos
	}

	qty := floatOrZero(txn.Quantity)
	unitPrice := floatOrZero(txn.UnitPrice)

	switch txn.Action {
	case domain.TxnBuy:
		pos.Quantity += qty
		pos.CostBasis += qty*unitPrice + txn.Fees
		pos.Invested += qty*unitPrice + txn.Fees
	case domain.TxnSell:
		if pos.Quantity > 0 {
			avgCost := pos.CostBasis / pos.Quantity
			pos.Quantity -= qty
			pos.CostBasis -= avgCost * qty
		}
	}
}

// ledgerCursor replays a date-sorted transaction list across a monotonically
// increasing sequence of cutoffs. Each transaction is consumed exactly once
// over the whole bucket sweep.
type ledgerCursor struct {
	txns []domain.Transaction
	idx  int
	book book
}

func newLedgerCursor(txns []domain.Transaction) *ledgerCursor {
	return &ledgerCursor{
		txns: txns,
		book: make(book),
	}
}

// advanceTo applies every transaction dated at or before cutoff and returns
// the updated book.
func (c *ledgerCursor) advanceTo(cutoff time.Time) book {
	for c.idx < len(c.txns) && !c.txns[c.idx].Date.After(cutoff) {
		c.book.apply(c.txns[c.idx])
		c.idx++
	}
	return c.book
}

// replay reconstructs positions from scratch up to and including cutoff.
func replay(txns []domain.Transaction, cutoff time.Time) book {
	return newLedgerCursor(txns).advanceTo(cutoff)
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
