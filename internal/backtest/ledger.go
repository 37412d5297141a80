// Package backtest drives the bar-by-bar strategy walk: it maintains the
// flat/in-position state machine, applies next-bar-open fills, and produces
// the trade ledger and its summary statistics.
package backtest

import (
	"time"

	"tradesuite/internal/domain"
	"tradesuite/internal/strategy"
)

// Status marks whether a trade reached a regular close. A position forcibly
// closed at the end of the data keeps status "open": it was never closed by
// the strategy's own rules.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// BarSnapshot captures the raw price fields of a fill bar, recorded on the
// trade as the buy_/sell_ bar context.
type BarSnapshot struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

func snapshot(b domain.Bar) BarSnapshot {
	return BarSnapshot{
		Date:   b.Timestamp,
		Open:   b.Open,
		High:   b.High,
		Low:    b.Low,
		Close:  b.Close,
		Volume: b.Volume,
	}
}

// Trade is the immutable record of one completed (or forcibly closed) round
// trip. Result is the multiplicative return factor sell/buy; values above 1
// are profit. Diagnostics carries strategy-specific fields so each strategy
// can record what matters to it without widening this struct.
type Trade struct {
	ID          int
	Result      float64
	BuyPrice    float64
	SellPrice   float64
	BuyDate     time.Time
	SellDate    time.Time
	DaysInTrade int
	ExitReason  strategy.ExitReason
	StopLoss    float64
	Status      Status
	Entry       BarSnapshot
	Exit        BarSnapshot
	Diagnostics map[string]float64
}

// Ledger is the ordered sequence of trades produced by one backtest run, in
// entry order. The engine owns it during a run; afterwards it is a read-only
// view for reporting and persistence.
type Ledger struct {
	Symbol   string
	Strategy string
	Trades   []Trade
}

// Len returns the number of trades in the ledger.
func (l *Ledger) Len() int {
	return len(l.Trades)
}
