package core

import (
	"fmt"
	"time"
)

// Bar represents one time-stamped price observation
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is a time-ordered price history. The engine and strategies
// only ever read it; ownership stays with the caller.
type PriceSeries []Bar

// Closes extracts the closing prices in bar order
func (p PriceSeries) Closes() []float64 {
	closes := make([]float64, len(p))
	for i, bar := range p {
		closes[i] = bar.Close
	}
	return closes
}

// Span returns the elapsed calendar time between the first and last bar
func (p PriceSeries) Span() time.Duration {
	if len(p) < 2 {
		return 0
	}
	return p[len(p)-1].Time.Sub(p[0].Time)
}

// Validate checks the series for integrity violations: non-monotonic or
// duplicated timestamps and non-positive prices.
func (p PriceSeries) Validate() error {
	for i, bar := range p {
		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			return WrapError(ErrDataIntegrity,
				fmt.Errorf("non-positive price at bar %d (%s)", i, bar.Time.Format("2006-01-02")))
		}
		if i > 0 && !bar.Time.After(p[i-1].Time) {
			return WrapError(ErrDataIntegrity,
				fmt.Errorf("timestamps not strictly increasing at bar %d (%s)", i, bar.Time.Format("2006-01-02")))
		}
	}
	return nil
}

// Signal is the directional intent a strategy emits for a bar:
// go long, go flat, or go short as of that bar's close.
type Signal int8

const (
	SignalShort Signal = -1
	SignalFlat  Signal = 0
	SignalLong  Signal = 1
)

// Valid reports whether the signal is one of short, flat, or long
func (s Signal) Valid() bool {
	return s == SignalShort || s == SignalFlat || s == SignalLong
}

func (s Signal) String() string {
	switch s {
	case SignalShort:
		return "short"
	case SignalLong:
		return "long"
	default:
		return "flat"
	}
}

// SignalSeries holds one signal per bar, aligned 1:1 with a PriceSeries
type SignalSeries []Signal

// Position is the exposure actually held for a bar. It lags the signal by
// one bar: the signal computed at bar t's close is held from bar t+1.
type Position int8

const (
	PositionShort Position = -1
	PositionFlat  Position = 0
	PositionLong  Position = 1
)

func (p Position) String() string { return Signal(p).String() }

// PositionSeries holds one position per bar, aligned 1:1 with a PriceSeries
type PositionSeries []Position

// Trade records one round trip from entry to exit. A trade still open when
// the data runs out is marked against the final close with Closed=false.
type Trade struct {
	Symbol     string    `json:"symbol,omitempty"`
	Direction  Position  `json:"direction"`
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	ReturnPct  float64   `json:"return_pct"`
	Closed     bool      `json:"closed"`
}

// IsWin returns true if the trade was profitable
func (t Trade) IsWin() bool {
	return t.ReturnPct > 0
}

// EquityPoint is the portfolio value at one bar
type EquityPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// EquityCurve is the per-bar portfolio value, starting at the initial
// capital on the first bar
type EquityCurve []EquityPoint

// Final returns the last portfolio value, or zero for an empty curve
func (e EquityCurve) Final() float64 {
	if len(e) == 0 {
		return 0
	}
	return e[len(e)-1].Value
}

// Metrics is the flat record of performance results for one run
type Metrics struct {
	TotalReturnPct  float64 `json:"total_return_pct"`
	AnnualReturnPct float64 `json:"annual_return_pct"`
	SharpeRatio     float64 `json:"sharpe_ratio"`
	MaxDrawdownPct  float64 `json:"max_drawdown_pct"`
	FinalValue      float64 `json:"final_value"`
	TotalTrades     int     `json:"total_trades"`
	WinningTrades   int     `json:"winning_trades"`
	LosingTrades    int     `json:"losing_trades"`
	WinRatePct      float64 `json:"win_rate_pct"`
}
