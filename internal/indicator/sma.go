package indicator

import "math"

// SMA calculates a Simple Moving Average over a trailing window.
// The result is aligned 1:1 with the input: result[i] averages
// values[i-period+1..i], and indexes before the window is complete are NaN.
// No future value ever contributes to an average.
func SMA(values []float64, period int) []float64 {
	result := make([]float64, len(values))
	if period <= 0 || len(values) < period {
		for i := range result {
			result[i] = math.NaN()
		}
		return result
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			result[i] = sum / float64(period)
		} else {
			result[i] = math.NaN()
		}
	}
	return result
}

// EMA calculates an Exponential Moving Average, seeded with the SMA of the
// first period values. Aligned and NaN-padded the same way as SMA.
func EMA(values []float64, period int) []float64 {
	result := make([]float64, len(values))
	if period <= 0 || len(values) < period {
		for i := range result {
			result[i] = math.NaN()
		}
		return result
	}

	multiplier := 2.0 / float64(period+1)

	var sum float64
	for i := 0; i < period; i++ {
		sum += values[i]
		if i < period-1 {
			result[i] = math.NaN()
		}
	}
	ema := sum / float64(period)
	result[period-1] = ema

	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		result[i] = ema
	}
	return result
}
