package runner

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quantfold/backlight/internal/core"
)

// Request describes one backtest to execute
type Request struct {
	Symbol         string    `json:"symbol"`
	Strategy       string    `json:"strategy"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	InitialCapital float64   `json:"initial_capital"`
	Interval       string    `json:"interval"`
}

func (r Request) validate() error {
	if r.Symbol == "" {
		return core.WrapError(core.ErrInvalidParameter, fmt.Errorf("symbol is required"))
	}
	if r.Strategy == "" {
		return core.WrapError(core.ErrInvalidParameter, fmt.Errorf("strategy is required"))
	}
	if r.InitialCapital <= 0 {
		return core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("initial capital must be positive, got %f", r.InitialCapital))
	}
	if !r.End.After(r.Start) {
		return core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("end %s must be after start %s", r.End.Format(time.DateOnly), r.Start.Format(time.DateOnly)))
	}
	return nil
}

// Report is the persisted output of a completed backtest
type Report struct {
	ID          string           `json:"id"`
	Symbol      string           `json:"symbol"`
	Strategy    string           `json:"strategy"`
	Start       time.Time        `json:"start"`
	End         time.Time        `json:"end"`
	Metrics     core.Metrics     `json:"metrics"`
	Trades      []core.Trade     `json:"trades"`
	Equity      core.EquityCurve `json:"equity"`
	GeneratedAt time.Time        `json:"generated_at"`
}

func newReport(req Request, strategyName string, trades []core.Trade, equity core.EquityCurve, m core.Metrics) *Report {
	return &Report{
		ID:          uuid.New().String(),
		Symbol:      req.Symbol,
		Strategy:    strategyName,
		Start:       req.Start,
		End:         req.End,
		Metrics:     m,
		Trades:      trades,
		Equity:      equity,
		GeneratedAt: time.Now().UTC(),
	}
}

// Outcome pairs one RunAll request with its result or error
type Outcome struct {
	Symbol string
	Report *Report
	Err    error
}
