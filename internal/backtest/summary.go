package backtest

import "tradesuite/internal/domain"

// Summary holds the aggregate statistics of one backtest run. It is always a
// pure function of the ledger and the bar span; it is never stored
// independently of them.
type Summary struct {
	TradeCount       int     // number of trades in the ledger
	WinRatio         float64 // % of trades with result > 1; 0 when empty
	AverageResultPct float64 // mean (result-1)*100; 0 when empty
	CumulativeResult float64 // product of all results; 1 when empty
	HoldResult       float64 // last close / first close; 1 for an empty span
}

// Summarize aggregates a ledger. The bars are the same span the backtest ran
// over and feed only the buy-and-hold benchmark.
func Summarize(ledger *Ledger, bars []domain.Bar) Summary {
	s := Summary{
		CumulativeResult: 1,
		HoldResult:       1,
	}

	if len(bars) > 0 && bars[0].Close > 0 {
		s.HoldResult = bars[len(bars)-1].Close / bars[0].Close
	}

	s.TradeCount = len(ledger.Trades)
	if s.TradeCount == 0 {
		return s
	}

	wins := 0
	var sumPct float64
	for _, t := range ledger.Trades {
		if t.Result > 1 {
			wins++
		}
		sumPct += (t.Result - 1) * 100
		s.CumulativeResult *= t.Result
	}
	s.WinRatio = 100 * float64(wins) / float64(s.TradeCount)
	s.AverageResultPct = sumPct / float64(s.TradeCount)
	return s
}
