package strategy

import (
	"testing"

	"tradesuite/internal/domain"
)

// reversionBars falls hard for six bars and then rebounds, driving RSI(3) to
// the floor and back above the sell threshold.
func reversionBars() []domain.Bar {
	closes := []float64{100, 98, 96, 94, 92, 90, 88, 91, 94, 97, 100, 103}
	bars := make([]domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = domain.Bar{
			Symbol:    "TEST",
			Timestamp: testStart.AddDate(0, 0, i),
			Open:      c + 0.5,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

func TestRSIReversionEntry(t *testing.T) {
	strat := NewRSIReversion(RSIReversionParams{Period: 3, BuyThreshold: 30, SellThreshold: 70})
	s := enriched(t, strat, reversionBars())

	// Straight-down tape: RSI is 0, well under the buy threshold.
	sig, ok := strat.EvaluateEntry(s, 6)
	if !ok {
		t.Fatal("entry did not fire on the oversold bar")
	}
	if _, ok := sig.Diagnostics["rsi_at_entry"]; !ok {
		t.Error("Diagnostics missing rsi_at_entry")
	}
	if sig.StopLoss != 0 {
		t.Errorf("StopLoss = %v, want 0 (strategy carries no stop)", sig.StopLoss)
	}

	// After three strong up bars RSI is back near 80.
	if _, ok := strat.EvaluateEntry(s, 9); ok {
		t.Error("entry fired with RSI above the buy threshold")
	}
}

func TestRSIReversionEntryFailsClosedDuringWarmup(t *testing.T) {
	strat := NewRSIReversion(RSIReversionParams{Period: 3, BuyThreshold: 30, SellThreshold: 70})
	s := enriched(t, strat, reversionBars())

	// RSI is undefined before the period completes.
	if _, ok := strat.EvaluateEntry(s, 2); ok {
		t.Error("entry fired while RSI was undefined")
	}
}

func TestRSIReversionExit(t *testing.T) {
	strat := NewRSIReversion(RSIReversionParams{Period: 3, BuyThreshold: 30, SellThreshold: 70})
	s := enriched(t, strat, reversionBars())
	pos := &Position{HighWater: 88, EntryPrice: 88}

	// One up bar is not enough.
	if _, ok := strat.EvaluateExit(s, 7, pos); ok {
		t.Error("exit fired before RSI crossed the sell threshold")
	}

	sig, ok := strat.EvaluateExit(s, 9, pos)
	if !ok {
		t.Fatal("exit did not fire with RSI above the sell threshold")
	}
	if sig.Reason != ExitRSIOverbought {
		t.Errorf("Reason = %q, want %q", sig.Reason, ExitRSIOverbought)
	}
}

func TestRSIReversionValidate(t *testing.T) {
	if err := NewRSIReversion(DefaultRSIReversionParams()).Validate(); err != nil {
		t.Fatalf("defaults failed validation: %v", err)
	}

	tests := []struct {
		name   string
		params RSIReversionParams
	}{
		{"zero period", RSIReversionParams{Period: 0, BuyThreshold: 30, SellThreshold: 70}},
		{"zero buy threshold", RSIReversionParams{Period: 14, BuyThreshold: 0, SellThreshold: 70}},
		{"inverted thresholds", RSIReversionParams{Period: 14, BuyThreshold: 70, SellThreshold: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewRSIReversion(tt.params).Validate(); err == nil {
				t.Error("Validate accepted invalid parameters")
			}
		})
	}
}
