// Package runner orchestrates the full pipeline for one or more symbols:
// fetch history, generate signals, simulate, measure, and optionally
// persist the resulting report.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quantfold/backlight/internal/backtest"
	"github.com/quantfold/backlight/internal/collector"
	"github.com/quantfold/backlight/internal/core"
	"github.com/quantfold/backlight/internal/metrics"
	"github.com/quantfold/backlight/internal/storage/blob"
	"github.com/quantfold/backlight/internal/strategy"
)

const defaultWorkers = 4

// Runner executes backtests. The provider and strategy registry are fixed at
// construction; store, metrics, and worker count are optional knobs.
type Runner struct {
	provider   collector.Provider
	strategies *strategy.Registry
	logger     *zap.Logger

	store   blob.Store
	metrics *metrics.Registry
	workers int
}

// New creates a runner with the given provider and strategy registry
func New(provider collector.Provider, strategies *strategy.Registry, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		provider:   provider,
		strategies: strategies,
		logger:     logger,
		workers:    defaultWorkers,
	}
}

// SetStore enables report persistence
func (r *Runner) SetStore(store blob.Store) {
	r.store = store
}

// SetMetrics enables instrumentation
func (r *Runner) SetMetrics(m *metrics.Registry) {
	r.metrics = m
}

// SetWorkers bounds RunAll concurrency. Values below 1 are ignored.
func (r *Runner) SetWorkers(n int) {
	if n >= 1 {
		r.workers = n
	}
}

// Run executes the full pipeline for one request. Each call builds a fresh
// strategy instance, so concurrent Runs share no mutable state.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	started := time.Now()
	if r.metrics != nil {
		r.metrics.RunStarted()
		defer r.metrics.RunFinished()
	}

	report, err := r.run(ctx, req)

	if r.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		r.metrics.RecordBacktest(req.Strategy, status, time.Since(started).Seconds())
	}
	return report, err
}

func (r *Runner) run(ctx context.Context, req Request) (*Report, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	strat, err := r.strategies.Build(req.Strategy)
	if err != nil {
		return nil, err
	}

	fetchStart := time.Now()
	series, err := r.provider.FetchHistory(ctx, req.Symbol, req.Start, req.End, req.Interval)
	if r.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		r.metrics.RecordFetch(r.provider.Name(), status, time.Since(fetchStart).Seconds())
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("history fetched",
		zap.String("symbol", req.Symbol),
		zap.Int("bars", len(series)),
	)

	if err := strat.Initialize(series, req.InitialCapital); err != nil {
		return nil, err
	}
	signals, err := strat.GenerateSignals()
	if err != nil {
		return nil, err
	}
	if r.metrics != nil {
		for _, sig := range signals {
			if sig != core.SignalFlat {
				r.metrics.RecordSignal(req.Strategy, sig.String())
			}
		}
	}

	engine := backtest.NewEngine()
	if err := engine.Initialize(series, req.InitialCapital); err != nil {
		return nil, err
	}
	result, err := engine.Run(signals)
	if err != nil {
		return nil, err
	}

	trades := make([]core.Trade, len(result.Trades))
	copy(trades, result.Trades)
	for i := range trades {
		trades[i].Symbol = req.Symbol
	}

	report := newReport(req, strat.Name(), trades, result.Equity,
		backtest.CalculateMetrics(result.Equity, req.InitialCapital, trades))

	r.logger.Info("backtest complete",
		zap.String("symbol", req.Symbol),
		zap.String("strategy", req.Strategy),
		zap.Float64("total_return_pct", report.Metrics.TotalReturnPct),
		zap.Int("trades", len(trades)),
	)

	if r.store != nil {
		if err := r.saveReport(ctx, report); err != nil {
			r.logger.Warn("saving report failed",
				zap.String("report_id", report.ID),
				zap.Error(err),
			)
		} else if r.metrics != nil {
			r.metrics.RecordReportSaved()
		}
	}

	return report, nil
}

// RunAll executes one request per symbol through a bounded worker pool and
// returns an outcome per request, in request order. Individual failures do
// not abort the batch.
func (r *Runner) RunAll(ctx context.Context, reqs []Request) []Outcome {
	outcomes := make([]Outcome, len(reqs))

	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			report, err := r.Run(ctx, req)
			outcomes[i] = Outcome{Symbol: req.Symbol, Report: report, Err: err}
		}(i, req)
	}

	wg.Wait()
	return outcomes
}

func (r *Runner) saveReport(ctx context.Context, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	key := fmt.Sprintf("reports/%s_%s_%s.json",
		report.Symbol, report.Strategy, report.GeneratedAt.Format("20060102T150405"))
	if err := r.store.Put(ctx, key, data); err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	return nil
}
