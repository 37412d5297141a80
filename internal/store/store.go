// Package store persists bar data in Parquet files and backtest runs in
// SQLite.
package store

import (
	"context"
	"time"

	"tradesuite/internal/domain"
)

// BarStore persists and retrieves OHLCV bar data.
type BarStore interface {
	// WriteBars persists a batch of bars under the given market.
	WriteBars(ctx context.Context, market string, bars []domain.Bar) error

	// ReadBars returns bars for the given symbol and market within [start, end].
	ReadBars(ctx context.Context, symbol string, market string, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all distinct symbols available in the given market.
	ListSymbols(ctx context.Context, market string) ([]string, error)
}

// RunStore persists and retrieves completed backtest runs.
type RunStore interface {
	// SaveRun inserts a run together with its trades.
	SaveRun(ctx context.Context, run *BacktestRun) error

	// GetRun retrieves one run, including its trades, by ID.
	GetRun(ctx context.Context, id string) (*BacktestRun, error)

	// ListRuns returns run metadata (no trades) for a symbol, newest first,
	// up to limit. An empty symbol matches every run.
	ListRuns(ctx context.Context, symbol string, limit int) ([]BacktestRun, error)
}
