package backtest

import (
	"github.com/quantfold/backlight/internal/core"
)

// Result holds the complete output of one simulated run. All slices are
// aligned 1:1 with the price series and must be treated as read-only; they
// are suitable for handing directly to a plotting collaborator.
type Result struct {
	Prices    core.PriceSeries
	Signals   core.SignalSeries
	Positions core.PositionSeries
	Trades    []core.Trade
	Equity    core.EquityCurve
}

// ClosedTrades returns only the trades with a recorded exit
func (r *Result) ClosedTrades() []core.Trade {
	var closed []core.Trade
	for _, t := range r.Trades {
		if t.Closed {
			closed = append(closed, t)
		}
	}
	return closed
}
