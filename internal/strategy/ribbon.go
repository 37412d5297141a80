package strategy

import (
	"fmt"

	"tradesuite/internal/indicator"
)

// Compile-time interface check.
var _ Strategy = (*SMMARibbon)(nil)

// SMMARibbonParams configures the smoothed-moving-average ribbon strategy.
// Periods must be strictly increasing, fastest first.
type SMMARibbonParams struct {
	Periods []int
}

// DefaultSMMARibbonParams returns the documented defaults.
func DefaultSMMARibbonParams() SMMARibbonParams {
	return SMMARibbonParams{Periods: []int{15, 19, 23, 27}}
}

// SMMARibbon trades ribbon alignment: enter when every faster band sits above
// the next slower one and the close is above the fastest band; exit when the
// close drops under the slowest band. It carries no protective stop.
type SMMARibbon struct {
	params SMMARibbonParams
}

// NewSMMARibbon creates the strategy with the given parameters.
func NewSMMARibbon(params SMMARibbonParams) *SMMARibbon {
	return &SMMARibbon{params: params}
}

// Name returns "smma-ribbon".
func (r *SMMARibbon) Name() string { return "smma-ribbon" }

// Validate checks the ribbon has at least two strictly increasing positive
// periods.
func (r *SMMARibbon) Validate() error {
	periods := r.params.Periods
	if len(periods) < 2 {
		return fmt.Errorf("smma-ribbon: need at least 2 periods, got %d", len(periods))
	}
	for i, p := range periods {
		if p <= 0 {
			return fmt.Errorf("smma-ribbon: periods must be positive integers, got %d", p)
		}
		if i > 0 && p <= periods[i-1] {
			return fmt.Errorf("smma-ribbon: periods must be strictly increasing, got %v", periods)
		}
	}
	return nil
}

// Warmup returns the slowest ribbon period.
func (r *SMMARibbon) Warmup() int {
	if len(r.params.Periods) == 0 {
		return 0
	}
	return r.params.Periods[len(r.params.Periods)-1]
}

func ribbonColumn(period int) string {
	return fmt.Sprintf("smma_%d", period)
}

// Enrich attaches one SMMA column per ribbon period.
func (r *SMMARibbon) Enrich(s *indicator.Series) error {
	closes := s.Closes()
	for _, p := range r.params.Periods {
		if err := s.SetColumn(ribbonColumn(p), indicator.SMMA(closes, p)); err != nil {
			return err
		}
	}
	return nil
}

// EvaluateEntry fires when the ribbon is stacked ascending (fastest on top)
// and the close is above the fastest band. Undefined bands fail closed.
func (r *SMMARibbon) EvaluateEntry(s *indicator.Series, i int) (EntrySignal, bool) {
	periods := r.params.Periods
	fastest := s.Value(ribbonColumn(periods[0]), i)
	if !indicator.Defined(fastest) || s.Bar(i).Close <= fastest {
		return EntrySignal{}, false
	}
	for j := 1; j < len(periods); j++ {
		faster := s.Value(ribbonColumn(periods[j-1]), i)
		slower := s.Value(ribbonColumn(periods[j]), i)
		if !indicator.Defined(slower) || faster <= slower {
			return EntrySignal{}, false
		}
	}
	return EntrySignal{
		Diagnostics: map[string]float64{"fastest_smma_at_entry": fastest},
	}, true
}

// EvaluateExit fires when the close drops under the slowest band.
func (r *SMMARibbon) EvaluateExit(s *indicator.Series, i int, _ *Position) (ExitSignal, bool) {
	slowest := s.Value(ribbonColumn(r.params.Periods[len(r.params.Periods)-1]), i)
	if s.Bar(i).Close < slowest {
		return ExitSignal{Reason: ExitRibbonBreakdown}, true
	}
	return ExitSignal{}, false
}
