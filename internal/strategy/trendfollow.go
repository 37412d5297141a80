package strategy

import (
	"fmt"
	"math"

	"tradesuite/internal/indicator"
)

// Column names written by TrendFollow.Enrich.
const (
	colRSI         = "rsi"
	colSMALong     = "sma_long"
	colSMAShort    = "sma_short"
	colATR         = "atr"
	colRollingHigh = "rolling_high"
	colRisePct     = "price_rise_pct"
)

// Compile-time interface check.
var _ Strategy = (*TrendFollow)(nil)

// TrendFollowParams configures the trend-following strategy. All periods are
// positive integers and all thresholds/multipliers positive reals; Validate
// enforces this before a run starts.
type TrendFollowParams struct {
	RSIPeriod          int     // RSI calculation period
	RSIThreshold       float64 // maximum RSI for entry (overbought filter)
	SMALong            int     // long SMA period for the trend filter
	SMAShort           int     // short SMA period for the exit
	SlopePeriod        int     // lookback for the long-SMA slope check
	BreakoutPeriod     int     // prior-bars rolling high period
	ATRPeriod          int     // ATR calculation period
	ATRMultiplierBody  float64 // minimum candle body in ATR units
	ATRMultiplierStop  float64 // initial stop distance in ATR units
	ATRMultiplierTrail float64 // trailing stop distance in ATR units
	MaxRisePeriod      int     // lookback for the parabolic-move filter
	MaxRisePercent     float64 // maximum rise % over MaxRisePeriod
}

// DefaultTrendFollowParams returns the documented defaults.
func DefaultTrendFollowParams() TrendFollowParams {
	return TrendFollowParams{
		RSIPeriod:          14,
		RSIThreshold:       65,
		SMALong:            200,
		SMAShort:           50,
		SlopePeriod:        10,
		BreakoutPeriod:     20,
		ATRPeriod:          14,
		ATRMultiplierBody:  1.0,
		ATRMultiplierStop:  2.0,
		ATRMultiplierTrail: 2.0,
		MaxRisePeriod:      20,
		MaxRisePercent:     15.0,
	}
}

// TrendFollow is a conservative trend-following strategy: long-SMA uptrend
// filter, prior-high breakout trigger, RSI overbought rejection, ATR-sized
// conviction candle, parabolic-move rejection, and an ATR trailing stop once
// in a position.
type TrendFollow struct {
	params TrendFollowParams
}

// NewTrendFollow creates the strategy with the given parameters.
func NewTrendFollow(params TrendFollowParams) *TrendFollow {
	return &TrendFollow{params: params}
}

// Name returns "trend-follow".
func (t *TrendFollow) Name() string { return "trend-follow" }

// Params returns the configured parameters.
func (t *TrendFollow) Params() TrendFollowParams { return t.params }

// Validate checks all periods are positive integers and all thresholds and
// multipliers positive reals.
func (t *TrendFollow) Validate() error {
	p := t.params
	for _, check := range []struct {
		name  string
		value int
	}{
		{"rsi_period", p.RSIPeriod},
		{"sma_long", p.SMALong},
		{"sma_short", p.SMAShort},
		{"slope_period", p.SlopePeriod},
		{"breakout_period", p.BreakoutPeriod},
		{"atr_period", p.ATRPeriod},
		{"max_rise_period", p.MaxRisePeriod},
	} {
		if check.value <= 0 {
			return fmt.Errorf("trend-follow: %s must be a positive integer, got %d", check.name, check.value)
		}
	}
	for _, check := range []struct {
		name  string
		value float64
	}{
		{"rsi_threshold", p.RSIThreshold},
		{"atr_multiplier_body", p.ATRMultiplierBody},
		{"atr_multiplier_stop", p.ATRMultiplierStop},
		{"atr_multiplier_trail", p.ATRMultiplierTrail},
		{"max_rise_percent", p.MaxRisePercent},
	} {
		if check.value <= 0 {
			return fmt.Errorf("trend-follow: %s must be positive, got %v", check.name, check.value)
		}
	}
	return nil
}

// Warmup returns the longest lookback among the configured periods; bars
// before this index are never evaluated for signals.
func (t *TrendFollow) Warmup() int {
	w := t.params.SMALong
	if t.params.BreakoutPeriod > w {
		w = t.params.BreakoutPeriod
	}
	if t.params.MaxRisePeriod > w {
		w = t.params.MaxRisePeriod
	}
	return w
}

// Enrich attaches RSI, long/short SMA, ATR, the prior-bars rolling high, and
// the rise-percent column to the series.
func (t *TrendFollow) Enrich(s *indicator.Series) error {
	closes := s.Closes()
	cols := map[string][]float64{
		colRSI:         indicator.RSI(closes, t.params.RSIPeriod),
		colSMALong:     indicator.SMA(closes, t.params.SMALong),
		colSMAShort:    indicator.SMA(closes, t.params.SMAShort),
		colATR:         indicator.ATR(s.Bars(), t.params.ATRPeriod),
		colRollingHigh: indicator.RollingMaxPrior(s.Highs(), t.params.BreakoutPeriod),
		colRisePct:     indicator.PercentChange(closes, t.params.MaxRisePeriod),
	}
	for name, values := range cols {
		if err := s.SetColumn(name, values); err != nil {
			return err
		}
	}
	return nil
}

// EvaluateEntry checks the seven entry conditions on bar i. All must hold
// simultaneously. NaN indicator values can never satisfy a condition, so
// warm-up and data gaps fail closed.
func (t *TrendFollow) EvaluateEntry(s *indicator.Series, i int) (EntrySignal, bool) {
	p := t.params
	bar := s.Bar(i)
	atr := s.Value(colATR, i)

	// 1. Not overbought.
	rsiOK := s.Value(colRSI, i) < p.RSIThreshold

	// 2. Uptrend: above the long SMA, and the long SMA is rising.
	smaLong := s.Value(colSMALong, i)
	slopeUp := false
	if i >= p.SlopePeriod {
		slopeUp = smaLong > s.Value(colSMALong, i-p.SlopePeriod)
	}
	trendOK := bar.Close > smaLong && slopeUp

	// 3. Breakout above the prior bars' high.
	breakoutOK := bar.Close > s.Value(colRollingHigh, i)

	// 4. Conviction candle: body at least ATRMultiplierBody ATRs.
	body := math.Abs(bar.Close - bar.Open)
	bodyOK := body >= p.ATRMultiplierBody*atr

	// 5. Reject parabolic moves.
	notParabolic := s.Value(colRisePct, i) <= p.MaxRisePercent

	// 6. Candle quality: no doji, no long upper wick. A zero-range bar
	// fails closed.
	candleRange := bar.High - bar.Low
	notDoji := candleRange > 0 && body >= 0.1*candleRange
	upperWick := bar.High - math.Max(bar.Open, bar.Close)
	notLongWick := body <= 0 || upperWick <= 2*body
	candleOK := notDoji && notLongWick

	// 7. ATR must be defined.
	atrOK := indicator.Defined(atr)

	if !(rsiOK && trendOK && breakoutOK && bodyOK && notParabolic && candleOK && atrOK) {
		return EntrySignal{}, false
	}

	stop := bar.Low - p.ATRMultiplierStop*atr
	return EntrySignal{
		StopLoss: stop,
		Diagnostics: map[string]float64{
			"atr_at_entry": atr,
			"rsi_at_entry": s.Value(colRSI, i),
		},
	}, true
}

// EvaluateExit ratchets the trailing stop against bar i's close, then checks
// the two exit conditions: trailing-stop breach and short-SMA breakdown. The
// stop only ever moves up; a NaN ATR leaves it unchanged.
func (t *TrendFollow) EvaluateExit(s *indicator.Series, i int, pos *Position) (ExitSignal, bool) {
	p := t.params
	bar := s.Bar(i)

	if bar.Close > pos.HighWater {
		pos.HighWater = bar.Close
		candidate := pos.HighWater - p.ATRMultiplierTrail*s.Value(colATR, i)
		if candidate > pos.TrailingStop {
			pos.TrailingStop = candidate
		}
	}

	if bar.Low <= pos.TrailingStop {
		return ExitSignal{Reason: ExitTrailingStop}, true
	}
	if bar.Close < s.Value(colSMAShort, i) {
		return ExitSignal{Reason: ExitBelowSMA50}, true
	}
	return ExitSignal{}, false
}
