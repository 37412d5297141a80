package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tradesuite/internal/backtest"
	"tradesuite/internal/strategy"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ RunStore = (*SQLiteStore)(nil)

// BacktestRun is one persisted backtest: the run parameters, the summary
// statistics, and the trades.
type BacktestRun struct {
	ID        string
	Symbol    string
	Strategy  string
	Market    string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
	Summary   backtest.Summary
	Trades    []backtest.Trade
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                 TEXT PRIMARY KEY,
	symbol             TEXT NOT NULL,
	strategy           TEXT NOT NULL,
	market             TEXT NOT NULL,
	start_date         INTEGER NOT NULL,
	end_date           INTEGER NOT NULL,
	created_at         INTEGER NOT NULL,
	trade_count        INTEGER NOT NULL,
	win_ratio          REAL NOT NULL,
	average_result_pct REAL NOT NULL,
	cumulative_result  REAL NOT NULL,
	hold_result        REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_symbol ON runs(symbol, created_at);

CREATE TABLE IF NOT EXISTS run_trades (
	run_id        TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	trade_id      INTEGER NOT NULL,
	result        REAL NOT NULL,
	buy_price     REAL NOT NULL,
	sell_price    REAL NOT NULL,
	buy_date      INTEGER NOT NULL,
	sell_date     INTEGER NOT NULL,
	days_in_trade INTEGER NOT NULL,
	exit_reason   TEXT NOT NULL,
	stop_loss     REAL NOT NULL,
	status        TEXT NOT NULL,
	PRIMARY KEY (run_id, trade_id)
);
`

// SQLiteStore implements RunStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, applies the
// schema, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// SQLite handles one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts a run and its trades in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *BacktestRun) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, symbol, strategy, market, start_date, end_date, created_at,
			trade_count, win_ratio, average_result_pct, cumulative_result, hold_result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Symbol, run.Strategy, run.Market,
		run.Start.UnixMilli(), run.End.UnixMilli(), run.CreatedAt.UnixMilli(),
		run.Summary.TradeCount, run.Summary.WinRatio, run.Summary.AverageResultPct,
		run.Summary.CumulativeResult, run.Summary.HoldResult)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	for _, tr := range run.Trades {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_trades (run_id, trade_id, result, buy_price, sell_price,
				buy_date, sell_date, days_in_trade, exit_reason, stop_loss, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, tr.ID, tr.Result, tr.BuyPrice, tr.SellPrice,
			tr.BuyDate.UnixMilli(), tr.SellDate.UnixMilli(), tr.DaysInTrade,
			string(tr.ExitReason), tr.StopLoss, string(tr.Status))
		if err != nil {
			return fmt.Errorf("inserting trade %d of run %s: %w", tr.ID, run.ID, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves one run, including its trades, by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*BacktestRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, symbol, strategy, market, start_date, end_date, created_at,
			trade_count, win_ratio, average_result_pct, cumulative_result, hold_result
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run %s not found", id)
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_id, result, buy_price, sell_price, buy_date, sell_date,
			days_in_trade, exit_reason, stop_loss, status
		FROM run_trades WHERE run_id = ? ORDER BY trade_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var tr backtest.Trade
		var buyMs, sellMs int64
		var reason, status string
		if err := rows.Scan(&tr.ID, &tr.Result, &tr.BuyPrice, &tr.SellPrice,
			&buyMs, &sellMs, &tr.DaysInTrade, &reason, &tr.StopLoss, &status); err != nil {
			return nil, err
		}
		tr.BuyDate = time.UnixMilli(buyMs).UTC()
		tr.SellDate = time.UnixMilli(sellMs).UTC()
		tr.ExitReason = strategy.ExitReason(reason)
		tr.Status = backtest.Status(status)
		run.Trades = append(run.Trades, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns run metadata (no trades) for a symbol, newest first, up to
// limit. An empty symbol matches every run.
func (s *SQLiteStore) ListRuns(ctx context.Context, symbol string, limit int) ([]BacktestRun, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, symbol, strategy, market, start_date, end_date, created_at,
			trade_count, win_ratio, average_result_pct, cumulative_result, hold_result
		FROM runs`
	args := []any{}
	if symbol != "" {
		query += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []BacktestRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*BacktestRun, error) {
	var run BacktestRun
	var startMs, endMs, createdMs int64
	err := row.Scan(&run.ID, &run.Symbol, &run.Strategy, &run.Market,
		&startMs, &endMs, &createdMs,
		&run.Summary.TradeCount, &run.Summary.WinRatio, &run.Summary.AverageResultPct,
		&run.Summary.CumulativeResult, &run.Summary.HoldResult)
	if err != nil {
		return nil, err
	}
	run.Start = time.UnixMilli(startMs).UTC()
	run.End = time.UnixMilli(endMs).UTC()
	run.CreatedAt = time.UnixMilli(createdMs).UTC()
	return &run, nil
}
