package strategy

import (
	"testing"

	"tradesuite/internal/domain"
)

// ribbonBars rises steadily for ten bars and then collapses, stacking the
// ribbon ascending before breaking it down.
func ribbonBars() []domain.Bar {
	closes := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 12}
	bars := make([]domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = domain.Bar{
			Symbol:    "TEST",
			Timestamp: testStart.AddDate(0, 0, i),
			Open:      c - 0.5,
			High:      c + 0.5,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

func TestSMMARibbonEntry(t *testing.T) {
	strat := NewSMMARibbon(SMMARibbonParams{Periods: []int{2, 3}})
	s := enriched(t, strat, ribbonBars())

	// Rising tape: fast band above slow band, close above the fast band.
	sig, ok := strat.EvaluateEntry(s, 9)
	if !ok {
		t.Fatal("entry did not fire with the ribbon stacked ascending")
	}
	if _, ok := sig.Diagnostics["fastest_smma_at_entry"]; !ok {
		t.Error("Diagnostics missing fastest_smma_at_entry")
	}

	// The collapse bar closes under the fast band.
	if _, ok := strat.EvaluateEntry(s, 10); ok {
		t.Error("entry fired with the close under the fastest band")
	}
}

func TestSMMARibbonEntryFailsClosedDuringWarmup(t *testing.T) {
	strat := NewSMMARibbon(SMMARibbonParams{Periods: []int{2, 3}})
	s := enriched(t, strat, ribbonBars())

	// The slow band is undefined at index 1.
	if _, ok := strat.EvaluateEntry(s, 1); ok {
		t.Error("entry fired while a ribbon band was undefined")
	}
}

func TestSMMARibbonExit(t *testing.T) {
	strat := NewSMMARibbon(SMMARibbonParams{Periods: []int{2, 3}})
	s := enriched(t, strat, ribbonBars())
	pos := &Position{EntryPrice: 19, HighWater: 19}

	if _, ok := strat.EvaluateExit(s, 9, pos); ok {
		t.Error("exit fired with the close above the slowest band")
	}

	sig, ok := strat.EvaluateExit(s, 10, pos)
	if !ok {
		t.Fatal("exit did not fire on the breakdown bar")
	}
	if sig.Reason != ExitRibbonBreakdown {
		t.Errorf("Reason = %q, want %q", sig.Reason, ExitRibbonBreakdown)
	}
}

func TestSMMARibbonValidate(t *testing.T) {
	if err := NewSMMARibbon(DefaultSMMARibbonParams()).Validate(); err != nil {
		t.Fatalf("defaults failed validation: %v", err)
	}

	tests := []struct {
		name    string
		periods []int
	}{
		{"single period", []int{10}},
		{"not strictly increasing", []int{10, 10, 20}},
		{"decreasing", []int{20, 15}},
		{"non-positive", []int{0, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewSMMARibbon(SMMARibbonParams{Periods: tt.periods}).Validate(); err == nil {
				t.Error("Validate accepted invalid periods")
			}
		})
	}
}

func TestSMMARibbonWarmup(t *testing.T) {
	strat := NewSMMARibbon(DefaultSMMARibbonParams())
	if got := strat.Warmup(); got != 27 {
		t.Errorf("Warmup = %d, want the slowest period 27", got)
	}
}
