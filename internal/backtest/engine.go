package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tradesuite/internal/domain"
	"tradesuite/internal/indicator"
	"tradesuite/internal/strategy"
)

// Run walks the bar series once, in order, applying the strategy's entry and
// exit rules, and returns the resulting trade ledger.
//
// Execution timing: a signal detected on bar i fills at bar i+1's open. When
// i is the last bar there is no next bar, so the fill falls back to bar i's
// own close. A position still open when the data ends is force-closed at the
// final close with reason end_of_data.
//
// The walk starts at the strategy's warm-up plus one; earlier bars are never
// evaluated. A series too short to reach that point yields an empty ledger,
// not an error. Invalid strategy parameters are rejected before any bar is
// touched.
//
// The input bars are copied into a private working series; the caller's
// slice is never mutated, so independent runs over the same data may execute
// concurrently.
func Run(bars []domain.Bar, strat strategy.Strategy) (*Ledger, error) {
	if err := strat.Validate(); err != nil {
		return nil, err
	}

	ledger := &Ledger{
		Strategy: strat.Name(),
		Trades:   []Trade{},
	}
	if len(bars) == 0 {
		return ledger, nil
	}
	ledger.Symbol = bars[0].Symbol

	series := indicator.NewSeries(bars)
	if err := strat.Enrich(series); err != nil {
		return nil, fmt.Errorf("enriching series: %w", err)
	}

	n := series.Len()
	var pos *strategy.Position
	var open *Trade
	tradeID := 1

	for i := strat.Warmup() + 1; i < n; i++ {
		if pos == nil {
			sig, ok := strat.EvaluateEntry(series, i)
			if !ok {
				continue
			}

			// Next-bar-open fill; same-bar close when there is no next bar.
			fill := series.Bar(i)
			price := fill.Close
			if i < n-1 {
				fill = series.Bar(i + 1)
				price = fill.Open
			}

			pos = &strategy.Position{
				EntryIndex:   i,
				EntryPrice:   price,
				EntryDate:    fill.Timestamp,
				StopLoss:     sig.StopLoss,
				HighWater:    price,
				TrailingStop: sig.StopLoss,
			}
			open = &Trade{
				ID:          tradeID,
				BuyPrice:    price,
				BuyDate:     fill.Timestamp,
				StopLoss:    sig.StopLoss,
				Status:      StatusOpen,
				Entry:       snapshot(fill),
				Diagnostics: sig.Diagnostics,
			}
			continue
		}

		sig, ok := strat.EvaluateExit(series, i, pos)
		if !ok {
			continue
		}

		fill := series.Bar(i)
		price := fill.Close
		if i < n-1 {
			fill = series.Bar(i + 1)
			price = fill.Open
		}

		open.SellPrice = price
		open.SellDate = fill.Timestamp
		open.Exit = snapshot(fill)
		open.ExitReason = sig.Reason
		open.Status = StatusClosed
		finalize(open)

		ledger.Trades = append(ledger.Trades, *open)
		tradeID++
		pos = nil
		open = nil
	}

	// Data ran out with a position still on: force-close at the last close.
	// Status stays "open" because the strategy's own rules never closed it.
	if pos != nil {
		last := series.Bar(n - 1)
		open.SellPrice = last.Close
		open.SellDate = last.Timestamp
		open.Exit = snapshot(last)
		open.ExitReason = strategy.ExitEndOfData
		finalize(open)
		ledger.Trades = append(ledger.Trades, *open)
	}

	return ledger, nil
}

// finalize computes the derived fields of a trade once both sides are set.
func finalize(t *Trade) {
	t.Result = t.SellPrice / t.BuyPrice
	t.DaysInTrade = int(t.SellDate.Sub(t.BuyDate).Hours() / 24)
}

// BarReader is the slice of the bar store the Backtester needs.
type BarReader interface {
	ReadBars(ctx context.Context, symbol string, market string, start, end time.Time) ([]domain.Bar, error)
}

// Backtester replays stored bar data through a registered strategy and
// reports the ledger together with its summary.
type Backtester struct {
	store    BarReader
	registry *strategy.Registry
}

// NewBacktester creates a Backtester that reads bars from the given store and
// looks up strategies in the provided registry.
func NewBacktester(barStore BarReader, registry *strategy.Registry) *Backtester {
	return &Backtester{
		store:    barStore,
		registry: registry,
	}
}

// Run executes a backtest for the named strategy over one symbol and date
// range. Bars are sorted by date before the walk so the engine's ordering
// requirement holds regardless of store layout.
func (bt *Backtester) Run(
	ctx context.Context,
	strategyName string,
	symbol string,
	market string,
	start, end time.Time,
) (*Ledger, Summary, error) {
	strat, ok := bt.registry.Get(strategyName)
	if !ok {
		return nil, Summary{}, fmt.Errorf("unknown strategy %q", strategyName)
	}

	bars, err := bt.store.ReadBars(ctx, symbol, market, start, end)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("reading bars for %s: %w", symbol, err)
	}
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})

	ledger, err := Run(bars, strat)
	if err != nil {
		return nil, Summary{}, err
	}
	ledger.Symbol = symbol

	return ledger, Summarize(ledger, bars), nil
}
