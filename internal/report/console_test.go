package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"tradesuite/internal/backtest"
	"tradesuite/internal/domain"
	"tradesuite/internal/strategy"
)

func TestPrintLedger(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	buy := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	ledger := &backtest.Ledger{
		Symbol:   "AAPL",
		Strategy: "trend-follow",
		Trades: []backtest.Trade{
			{
				ID:          1,
				BuyPrice:    150.25,
				SellPrice:   162.00,
				BuyDate:     buy,
				SellDate:    buy.AddDate(0, 0, 12),
				DaysInTrade: 12,
				Result:      162.00 / 150.25,
				ExitReason:  strategy.ExitTrailingStop,
				Status:      backtest.StatusClosed,
			},
		},
	}

	c.PrintLedger(ledger)
	out := buf.String()

	for _, want := range []string{"AAPL", "trend-follow", "2023-03-01", "150.25", "trailing_stop", "closed"} {
		if !strings.Contains(out, want) {
			t.Errorf("ledger output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintLedgerEmpty(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	c.PrintLedger(&backtest.Ledger{Symbol: "MSFT", Strategy: "trend-follow", Trades: []backtest.Trade{}})
	if !strings.Contains(buf.String(), "0 trades") {
		t.Errorf("empty ledger output missing trade count:\n%s", buf.String())
	}
}

func TestPrintSummaryLabels(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	c.PrintSummary(backtest.Summary{
		TradeCount:       3,
		WinRatio:         66.67,
		AverageResultPct: 3.33,
		CumulativeResult: 1.0973,
		HoldResult:       1.2,
	})
	out := buf.String()

	// These labels are output contract; downstream scripts grep for them.
	for _, want := range []string{
		"number_of_trades",
		"win_ratio(%)",
		"average_res(%)",
		"cumulative_result",
		"hold_result",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing label %q:\n%s", want, out)
		}
	}
}

func TestPrintCandidates(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf)

	c.PrintCandidates([]domain.Instrument{
		{Symbol: "NVDA", Name: "NVIDIA Corp", Sector: "Information Technology", MarketCap: 2.1e12},
	})
	out := buf.String()

	for _, want := range []string{"1 candidates", "NVDA", "Information Technology"} {
		if !strings.Contains(out, want) {
			t.Errorf("candidates output missing %q:\n%s", want, out)
		}
	}
}
