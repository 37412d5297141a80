// Package strategy defines the Strategy interface for rule-based trading
// strategies, the open-position state threaded through per-bar evaluation,
// and a Registry for managing the built-in implementations.
package strategy

import (
	"sort"
	"time"

	"tradesuite/internal/indicator"
)

// ExitReason labels why a position was closed.
type ExitReason string

const (
	// ExitTrailingStop fires when a bar's low breaches the trailing stop.
	ExitTrailingStop ExitReason = "trailing_stop"
	// ExitBelowSMA50 fires when the close drops under the short SMA. The
	// label is fixed regardless of the configured short period; changing it
	// would break output compatibility with existing consumers.
	ExitBelowSMA50 ExitReason = "below_sma50"
	// ExitRSIOverbought fires when RSI rises above the sell threshold.
	ExitRSIOverbought ExitReason = "rsi_overbought"
	// ExitRibbonBreakdown fires when the close drops under the slowest
	// ribbon band.
	ExitRibbonBreakdown ExitReason = "ribbon_breakdown"
	// ExitEndOfData closes a position forcibly when the series runs out.
	ExitEndOfData ExitReason = "end_of_data"
)

// Position is the state of the single open trade, created on entry and
// mutated each bar while open. The engine owns it; strategies receive it in
// EvaluateExit and may ratchet the trailing-stop fields.
type Position struct {
	EntryIndex   int       // bar index the entry signal fired on
	EntryPrice   float64   // fill price
	EntryDate    time.Time // fill bar date
	StopLoss     float64   // initial protective stop, 0 if the strategy has none
	HighWater    float64   // highest close seen since entry
	TrailingStop float64   // active trailing stop, non-decreasing while open
}

// EntrySignal carries the data an entry decision produces beyond the decision
// itself: the initial protective stop (0 when the strategy has none) and any
// strategy-specific diagnostic values to record on the trade.
type EntrySignal struct {
	StopLoss    float64
	Diagnostics map[string]float64
}

// ExitSignal carries the exit decision's reason.
type ExitSignal struct {
	Reason ExitReason
}

// Strategy is the closed set of rule evaluators the backtest engine drives.
// Implementations are pure with respect to the series: Enrich writes derived
// columns once up front, and the Evaluate methods read them without further
// mutation.
type Strategy interface {
	// Name returns the unique identifier for this strategy.
	Name() string

	// Validate checks the strategy's parameters. It runs before any bar is
	// processed; a failure is a configuration error, not a run outcome.
	Validate() error

	// Warmup returns the number of leading bars that must exist before the
	// first bar eligible for signal evaluation.
	Warmup() int

	// Enrich computes the indicator columns the strategy needs and attaches
	// them to the series.
	Enrich(s *indicator.Series) error

	// EvaluateEntry decides whether an entry fires on bar i. Called only
	// while flat.
	EvaluateEntry(s *indicator.Series, i int) (EntrySignal, bool)

	// EvaluateExit decides whether an exit fires on bar i, updating the
	// position's trailing-stop state first. Called only while in-position.
	EvaluateExit(s *indicator.Series, i int, pos *Position) (ExitSignal, bool)
}

// Registry holds a named collection of strategies for lookup and enumeration.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry creates an empty strategy Registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register adds a strategy to the registry, keyed by its Name().
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Name()] = s
}

// Get retrieves a strategy by name. The second return value indicates whether
// the strategy was found.
func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// List returns a sorted slice of all registered strategy names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
