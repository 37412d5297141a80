// Package indicator provides the working series used by strategy evaluation
// and the pure time-series transforms computed over it (SMA, EMA, SMMA, RSI,
// ATR, rolling extremes).
//
// Values that have no definition yet (the warm-up span of a windowed
// indicator) are represented as NaN, never as zero. Use Defined to test for a
// usable value; all float comparisons against NaN are false, so undefined
// values can never satisfy an entry or exit condition by accident.
package indicator

import (
	"fmt"
	"math"

	"tradesuite/internal/domain"
)

// Series is a private working copy of a bar sequence plus derived indicator
// columns aligned 1:1 with the bars. The engine builds one Series per backtest
// run; the caller's bar slice is copied and never mutated.
type Series struct {
	bars []domain.Bar
	cols map[string][]float64
}

// NewSeries copies bars into a fresh Series with no derived columns.
func NewSeries(bars []domain.Bar) *Series {
	copied := make([]domain.Bar, len(bars))
	copy(copied, bars)
	return &Series{
		bars: copied,
		cols: make(map[string][]float64),
	}
}

// Len returns the number of bars in the series.
func (s *Series) Len() int {
	return len(s.bars)
}

// Bar returns the bar at index i.
func (s *Series) Bar(i int) domain.Bar {
	return s.bars[i]
}

// Bars returns the underlying bar slice. Callers must treat it as read-only.
func (s *Series) Bars() []domain.Bar {
	return s.bars
}

// SetColumn attaches a derived column to the series. The column must have
// exactly one value per bar.
func (s *Series) SetColumn(name string, values []float64) error {
	if len(values) != len(s.bars) {
		return fmt.Errorf("indicator: column %q has %d values for %d bars", name, len(values), len(s.bars))
	}
	s.cols[name] = values
	return nil
}

// HasColumn reports whether a derived column exists.
func (s *Series) HasColumn(name string) bool {
	_, ok := s.cols[name]
	return ok
}

// Value returns the value of column name at index i, or NaN if the column
// does not exist.
func (s *Series) Value(name string, i int) float64 {
	col, ok := s.cols[name]
	if !ok {
		return math.NaN()
	}
	return col[i]
}

// Closes returns the close price of every bar as a plain slice, the usual
// input for close-based transforms.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Close
	}
	return out
}

// Highs returns the high price of every bar.
func (s *Series) Highs() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.High
	}
	return out
}

// Defined reports whether v is a usable indicator value (not NaN).
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// undefined returns a slice of n NaNs, the starting point for every windowed
// transform.
func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
