package strategy

import (
	"fmt"

	"tradesuite/internal/indicator"
)

// Compile-time interface check.
var _ Strategy = (*RSIReversion)(nil)

// RSIReversionParams configures the RSI threshold strategy.
type RSIReversionParams struct {
	Period        int     // RSI calculation period
	BuyThreshold  float64 // enter when RSI drops below this
	SellThreshold float64 // exit when RSI rises above this
}

// DefaultRSIReversionParams returns the documented defaults.
func DefaultRSIReversionParams() RSIReversionParams {
	return RSIReversionParams{
		Period:        14,
		BuyThreshold:  30,
		SellThreshold: 70,
	}
}

// RSIReversion buys oversold conditions and sells overbought ones: enter
// when RSI(period) is under the buy threshold, exit when it climbs over the
// sell threshold. It carries no protective stop.
type RSIReversion struct {
	params RSIReversionParams
}

// NewRSIReversion creates the strategy with the given parameters.
func NewRSIReversion(params RSIReversionParams) *RSIReversion {
	return &RSIReversion{params: params}
}

// Name returns "rsi-reversion".
func (r *RSIReversion) Name() string { return "rsi-reversion" }

// Validate checks the period and thresholds.
func (r *RSIReversion) Validate() error {
	p := r.params
	if p.Period <= 0 {
		return fmt.Errorf("rsi-reversion: period must be a positive integer, got %d", p.Period)
	}
	if p.BuyThreshold <= 0 || p.SellThreshold <= 0 {
		return fmt.Errorf("rsi-reversion: thresholds must be positive, got buy=%v sell=%v",
			p.BuyThreshold, p.SellThreshold)
	}
	if p.BuyThreshold >= p.SellThreshold {
		return fmt.Errorf("rsi-reversion: buy threshold %v must be below sell threshold %v",
			p.BuyThreshold, p.SellThreshold)
	}
	return nil
}

// Warmup returns the RSI period.
func (r *RSIReversion) Warmup() int {
	return r.params.Period
}

// Enrich attaches the RSI column to the series.
func (r *RSIReversion) Enrich(s *indicator.Series) error {
	return s.SetColumn(colRSI, indicator.RSI(s.Closes(), r.params.Period))
}

// EvaluateEntry fires when RSI is defined and below the buy threshold.
func (r *RSIReversion) EvaluateEntry(s *indicator.Series, i int) (EntrySignal, bool) {
	rsi := s.Value(colRSI, i)
	if !indicator.Defined(rsi) || rsi >= r.params.BuyThreshold {
		return EntrySignal{}, false
	}
	return EntrySignal{
		Diagnostics: map[string]float64{"rsi_at_entry": rsi},
	}, true
}

// EvaluateExit fires when RSI rises above the sell threshold.
func (r *RSIReversion) EvaluateExit(s *indicator.Series, i int, _ *Position) (ExitSignal, bool) {
	if s.Value(colRSI, i) > r.params.SellThreshold {
		return ExitSignal{Reason: ExitRSIOverbought}, true
	}
	return ExitSignal{}, false
}
