// Package backtest simulates portfolio evolution under a signal stream and
// computes performance metrics from the resulting equity curve.
package backtest

import (
	"fmt"

	"github.com/quantfold/backlight/internal/core"
)

// Engine turns a complete signal series into positions, trades, and an
// equity curve. The deliberate rule at its center: a signal generated from
// bar t's close determines the position held from bar t+1 onward. The
// one-bar execution lag keeps the simulation free of look-ahead bias.
type Engine struct {
	series         core.PriceSeries
	initialCapital float64
	initialized    bool
}

// NewEngine creates an unbound engine
func NewEngine() *Engine {
	return &Engine{}
}

// Initialize binds the price history and starting capital. The series must
// contain at least two bars (no return is computable otherwise) and pass
// integrity checks; the capital must be positive.
func (e *Engine) Initialize(series core.PriceSeries, initialCapital float64) error {
	if initialCapital <= 0 {
		return core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("initial capital must be positive, got %f", initialCapital))
	}
	if len(series) < 2 {
		return core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("need at least 2 bars, got %d", len(series)))
	}
	if err := series.Validate(); err != nil {
		return err
	}

	e.series = series
	e.initialCapital = initialCapital
	e.initialized = true
	return nil
}

// Run simulates the full signal series against the bound price history.
// Signal generation must have completed before Run is called; the position
// at bar 0 depends on the series as a whole, so there is no streaming mode.
// A run either completes or fails; no partial result is ever returned.
func (e *Engine) Run(signals core.SignalSeries) (*Result, error) {
	if !e.initialized {
		return nil, core.WrapError(core.ErrNotInitialized,
			fmt.Errorf("engine: Initialize must be called before Run"))
	}
	if len(signals) != len(e.series) {
		return nil, core.WrapError(core.ErrDataIntegrity,
			fmt.Errorf("signal series length %d does not match price series length %d", len(signals), len(e.series)))
	}
	for i, sig := range signals {
		if !sig.Valid() {
			return nil, core.WrapError(core.ErrDataIntegrity,
				fmt.Errorf("signal %d at bar %d outside {-1, 0, 1}", sig, i))
		}
	}

	positions := lagPositions(signals)
	equity := e.compound(positions)
	trades := e.recordTrades(positions)

	return &Result{
		Prices:    e.series,
		Signals:   signals,
		Positions: positions,
		Trades:    trades,
		Equity:    equity,
	}, nil
}

// lagPositions applies the one-bar execution lag: positions[t] = signals[t-1],
// and the first bar is always flat.
func lagPositions(signals core.SignalSeries) core.PositionSeries {
	positions := make(core.PositionSeries, len(signals))
	for t := 1; t < len(signals); t++ {
		positions[t] = core.Position(signals[t-1])
	}
	return positions
}

// compound builds the equity curve by multiplicative compounding: a long
// position captures the full bar return, a short its negation, and cash
// earns nothing.
func (e *Engine) compound(positions core.PositionSeries) core.EquityCurve {
	equity := make(core.EquityCurve, len(e.series))
	equity[0] = core.EquityPoint{Time: e.series[0].Time, Value: e.initialCapital}

	for t := 1; t < len(e.series); t++ {
		barReturn := e.series[t].Close/e.series[t-1].Close - 1
		value := equity[t-1].Value * (1 + float64(positions[t])*barReturn)
		equity[t] = core.EquityPoint{Time: e.series[t].Time, Value: value}
	}
	return equity
}

// recordTrades converts position level changes into discrete trades. Entry
// and exit both use the bar close, consistent with signal timing. A reversal
// closes one trade and opens another on the same bar. A position still held
// on the final bar is recorded against the final close with Closed=false.
func (e *Engine) recordTrades(positions core.PositionSeries) []core.Trade {
	var trades []core.Trade
	var open *core.Trade

	for t := 1; t < len(positions); t++ {
		if positions[t] == positions[t-1] {
			continue
		}
		bar := e.series[t]

		if open != nil {
			open.ExitTime = bar.Time
			open.ExitPrice = bar.Close
			open.ReturnPct = tradeReturn(open.Direction, open.EntryPrice, bar.Close)
			open.Closed = true
			trades = append(trades, *open)
			open = nil
		}
		if positions[t] != core.PositionFlat {
			open = &core.Trade{
				Direction:  positions[t],
				EntryTime:  bar.Time,
				EntryPrice: bar.Close,
			}
		}
	}

	if open != nil {
		last := e.series[len(e.series)-1]
		open.ExitTime = last.Time
		open.ExitPrice = last.Close
		open.ReturnPct = tradeReturn(open.Direction, open.EntryPrice, last.Close)
		trades = append(trades, *open)
	}

	return trades
}

// tradeReturn applies the direction sign so a falling price is a gain for a
// short trade.
func tradeReturn(direction core.Position, entry, exit float64) float64 {
	return float64(direction) * (exit/entry - 1) * 100
}
