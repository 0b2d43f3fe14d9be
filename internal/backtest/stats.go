package backtest

import (
	"math"

	"github.com/quantfold/backlight/internal/core"
)

const (
	// periodsPerYear annualizes per-bar statistics for daily bars
	periodsPerYear = 252
	// daysPerYear annualizes the calendar-span return
	daysPerYear = 365.25
)

// CalculateMetrics computes risk/return statistics from an equity curve and
// the recorded trades. Pure function: no hidden state, no I/O. Numeric edge
// cases that stem from legitimate inputs (flat equity, sub-day spans) are
// defined results, not errors. Trade counts only classify closed trades:
// a win requires a strictly positive return, so a break-even trade counts
// as losing. Open trades appear in TotalTrades but in neither bucket.
func CalculateMetrics(equity core.EquityCurve, initialCapital float64, trades []core.Trade) core.Metrics {
	if len(equity) == 0 || initialCapital <= 0 {
		return core.Metrics{}
	}

	final := equity.Final()

	m := core.Metrics{
		TotalReturnPct:  (final/initialCapital - 1) * 100,
		AnnualReturnPct: annualReturn(equity, initialCapital),
		SharpeRatio:     sharpeRatio(barReturns(equity)),
		MaxDrawdownPct:  maxDrawdown(equity) * 100,
		FinalValue:      final,
	}

	m.TotalTrades = len(trades)
	var winning, losing int
	for _, t := range trades {
		if !t.Closed {
			continue
		}
		if t.IsWin() {
			winning++
		} else {
			losing++
		}
	}
	m.WinningTrades = winning
	m.LosingTrades = losing
	if closed := winning + losing; closed > 0 {
		m.WinRatePct = float64(winning) / float64(closed) * 100
	}

	return m
}

// annualReturn compounds the total return to a one-year equivalent over the
// elapsed calendar span. Spans under one day report 0 instead of dividing
// by near-zero.
func annualReturn(equity core.EquityCurve, initialCapital float64) float64 {
	days := equity[len(equity)-1].Time.Sub(equity[0].Time).Hours() / 24
	if days < 1 {
		return 0
	}
	return (math.Pow(equity.Final()/initialCapital, daysPerYear/days) - 1) * 100
}

// barReturns computes the simple per-bar returns of the equity curve
func barReturns(equity core.EquityCurve) []float64 {
	if len(equity) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		returns = append(returns, equity[i].Value/equity[i-1].Value-1)
	}
	return returns
}

// sharpeRatio computes the annualized risk-adjusted return: mean per-bar
// return over its sample standard deviation, scaled by sqrt(252).
// Zero variance (flat equity) is a defined 0, not a division by zero.
func sharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(returns)-1))

	if stdDev == 0 {
		return 0
	}
	return mean / stdDev * math.Sqrt(periodsPerYear)
}

// maxDrawdown finds the largest peak-to-trough decline of the equity curve
// as a positive fraction, using a running maximum as the peak.
func maxDrawdown(equity core.EquityCurve) float64 {
	var maxDD float64
	var peak float64

	for _, point := range equity {
		if point.Value > peak {
			peak = point.Value
		}
		if peak > 0 {
			dd := (peak - point.Value) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
