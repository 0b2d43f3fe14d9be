package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	backtestsTotal   *prometheus.CounterVec
	backtestDuration prometheus.Histogram
	signalsGenerated *prometheus.CounterVec
	providerFetches  *prometheus.CounterVec
	fetchDuration    *prometheus.HistogramVec
	runsActive       prometheus.Gauge
	reportsSaved     prometheus.Counter
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		backtestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backlight_backtests_total",
				Help: "Total number of backtests",
			},
			[]string{"strategy", "status"},
		),

		backtestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "backlight_backtest_duration_seconds",
				Help:    "Backtest duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
			},
		),

		signalsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backlight_signals_generated_total",
				Help: "Total number of signals generated",
			},
			[]string{"strategy", "action"},
		),

		providerFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backlight_provider_fetches_total",
				Help: "Total number of price history fetches",
			},
			[]string{"provider", "status"},
		),

		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backlight_fetch_duration_seconds",
				Help:    "Price history fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),

		runsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "backlight_runs_active",
				Help: "Number of backtest runs currently in flight",
			},
		),

		reportsSaved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "backlight_reports_saved_total",
				Help: "Total number of reports persisted to storage",
			},
		),
	}

	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.backtestDuration)
	reg.MustRegister(r.signalsGenerated)
	reg.MustRegister(r.providerFetches)
	reg.MustRegister(r.fetchDuration)
	reg.MustRegister(r.runsActive)
	reg.MustRegister(r.reportsSaved)

	return r
}

// RecordBacktest records a backtest completion.
func (r *Registry) RecordBacktest(strategy, status string, duration float64) {
	r.backtestsTotal.WithLabelValues(strategy, status).Inc()
	r.backtestDuration.Observe(duration)
}

// RecordSignal records a generated signal.
func (r *Registry) RecordSignal(strategy, action string) {
	r.signalsGenerated.WithLabelValues(strategy, action).Inc()
}

// RecordFetch records a price history fetch.
func (r *Registry) RecordFetch(provider, status string, duration float64) {
	r.providerFetches.WithLabelValues(provider, status).Inc()
	r.fetchDuration.WithLabelValues(provider).Observe(duration)
}

// RunStarted increments the in-flight run gauge.
func (r *Registry) RunStarted() {
	r.runsActive.Inc()
}

// RunFinished decrements the in-flight run gauge.
func (r *Registry) RunFinished() {
	r.runsActive.Dec()
}

// RecordReportSaved records a persisted report.
func (r *Registry) RecordReportSaved() {
	r.reportsSaved.Inc()
}
