package indicator

import (
	"math"

	"tradesuite/internal/domain"
)

// SMA computes a simple moving average over the trailing period. The first
// period-1 values are undefined.
func SMA(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA computes an exponential moving average seeded with the SMA of the first
// period values. The first period-1 values are undefined.
func EMA(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var seed float64
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	out[period-1] = seed

	alpha := 2.0 / (float64(period) + 1.0)
	prev := seed
	for i := period; i < len(values); i++ {
		prev = alpha*values[i] + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

// SMMA computes a smoothed (Wilder) moving average seeded with the SMA of the
// first period values. The first period-1 values are undefined.
func SMMA(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var seed float64
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	out[period-1] = seed

	prev := seed
	for i := period; i < len(values); i++ {
		prev = (prev*float64(period-1) + values[i]) / float64(period)
		out[i] = prev
	}
	return out
}

// RSI computes the Wilder relative strength index over close deltas. Values
// are in [0, 100]; the first period values are undefined.
func RSI(closes []float64, period int) []float64 {
	out := undefined(len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss += -delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiFromAverages(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			// No movement at all in the window: the ratio is undefined.
			return math.NaN()
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// ATR computes the Wilder average true range from bar highs, lows, and the
// previous close. The first period values are undefined.
func ATR(bars []domain.Bar, period int) []float64 {
	out := undefined(len(bars))
	if period <= 0 || len(bars) <= period {
		return out
	}

	tr := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	var seed float64
	for i := 1; i <= period; i++ {
		seed += tr[i]
	}
	seed /= float64(period)
	out[period] = seed

	prev := seed
	for i := period + 1; i < len(bars); i++ {
		prev = (prev*float64(period-1) + tr[i]) / float64(period)
		out[i] = prev
	}
	return out
}

// RollingMaxPrior computes, for each bar, the maximum of the preceding period
// values, excluding the current bar. The exclusion is deliberate: a breakout
// above the last N bars' high must not be satisfied by today's own high. The
// first period values are undefined.
func RollingMaxPrior(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 {
		return out
	}
	for i := period; i < len(values); i++ {
		m := values[i-period]
		for j := i - period + 1; j < i; j++ {
			if values[j] > m {
				m = values[j]
			}
		}
		out[i] = m
	}
	return out
}

// RollingMinPrior computes, for each bar, the minimum of the preceding period
// values, excluding the current bar. The first period values are undefined.
func RollingMinPrior(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 {
		return out
	}
	for i := period; i < len(values); i++ {
		m := values[i-period]
		for j := i - period + 1; j < i; j++ {
			if values[j] < m {
				m = values[j]
			}
		}
		out[i] = m
	}
	return out
}

// PercentChange computes the percent change of each value versus the value
// period bars earlier. The first period values are undefined.
func PercentChange(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 {
		return out
	}
	for i := period; i < len(values); i++ {
		prev := values[i-period]
		if prev == 0 {
			continue
		}
		out[i] = (values[i]/prev - 1) * 100
	}
	return out
}
