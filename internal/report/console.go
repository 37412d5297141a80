// Package report renders backtest ledgers, summaries, and screener results
// for the terminal.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	"tradesuite/internal/backtest"
	"tradesuite/internal/domain"
)

// Console writes human-readable reports to a single destination.
type Console struct {
	out io.Writer
}

// NewConsole creates a reporter that writes to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter creates a reporter for tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// PrintLedger renders the trade-by-trade table for one backtest run.
func (c *Console) PrintLedger(ledger *backtest.Ledger) {
	fmt.Fprintf(c.out, "\n%s / %s: %d trades\n", ledger.Symbol, ledger.Strategy, ledger.Len())
	if ledger.Len() == 0 {
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Buy Date", "Buy", "Sell Date", "Sell", "Days", "Result", "Exit", "Status")

	for _, tr := range ledger.Trades {
		table.Append(
			fmt.Sprintf("%d", tr.ID),
			tr.BuyDate.Format("2006-01-02"),
			fmt.Sprintf("%.2f", tr.BuyPrice),
			tr.SellDate.Format("2006-01-02"),
			fmt.Sprintf("%.2f", tr.SellPrice),
			fmt.Sprintf("%d", tr.DaysInTrade),
			fmt.Sprintf("%.4f", tr.Result),
			string(tr.ExitReason),
			string(tr.Status),
		)
	}
	table.Render()
}

// PrintSummary renders the aggregate statistics of one run. The field labels
// are part of the tool's output contract and must not change.
func (c *Console) PrintSummary(s backtest.Summary) {
	fmt.Fprintf(c.out, "\n  number_of_trades:   %d\n", s.TradeCount)
	fmt.Fprintf(c.out, "  win_ratio(%%):       %.2f\n", s.WinRatio)
	fmt.Fprintf(c.out, "  average_res(%%):     %.2f\n", s.AverageResultPct)
	fmt.Fprintf(c.out, "  cumulative_result:  %.4f\n", s.CumulativeResult)
	fmt.Fprintf(c.out, "  hold_result:        %.4f\n", s.HoldResult)
	fmt.Fprintln(c.out)
}

// PrintCandidates renders a screener result set.
func (c *Console) PrintCandidates(instruments []domain.Instrument) {
	fmt.Fprintf(c.out, "\n%d candidates\n", len(instruments))
	if len(instruments) == 0 {
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Symbol", "Name", "Sector", "Market Cap")

	for i, inst := range instruments {
		table.Append(
			fmt.Sprintf("%d", i+1),
			inst.Symbol,
			inst.Name,
			inst.Sector,
			fmt.Sprintf("%.0f", inst.MarketCap),
		)
	}
	table.Render()
}
