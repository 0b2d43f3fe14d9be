package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantfold/backlight/internal/collector"
	"github.com/quantfold/backlight/internal/collector/cached"
	"github.com/quantfold/backlight/internal/collector/yahoo"
	"github.com/quantfold/backlight/internal/config"
	"github.com/quantfold/backlight/internal/logger"
	"github.com/quantfold/backlight/internal/metrics"
	"github.com/quantfold/backlight/internal/runner"
	"github.com/quantfold/backlight/internal/storage/blob"
	"github.com/quantfold/backlight/internal/strategy"
	"github.com/quantfold/backlight/internal/strategy/emacross"
	"github.com/quantfold/backlight/internal/strategy/smacross"
)

var (
	backtestSymbols string
	backtestFrom    string
	backtestTo      string
	backtestCapital float64
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [strategy]",
	Short: "Run a backtest over one or more symbols",
	Long:  "Run a strategy against historical data and show performance statistics per symbol",
	Args:  cobra.ExactArgs(1),
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSymbols, "symbols", "", "Comma-separated symbols to backtest (required)")
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "Start date YYYY-MM-DD (required)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "End date YYYY-MM-DD")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 0, "Initial capital (overrides config)")

	backtestCmd.MarkFlagRequired("symbols")
	backtestCmd.MarkFlagRequired("from")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	strategyName := args[0]

	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	fromDate, err := time.Parse("2006-01-02", backtestFrom)
	if err != nil {
		return fmt.Errorf("invalid from date format (expected YYYY-MM-DD): %w", err)
	}
	toDate := time.Now().UTC().Truncate(24 * time.Hour)
	if backtestTo != "" {
		toDate, err = time.Parse("2006-01-02", backtestTo)
		if err != nil {
			return fmt.Errorf("invalid to date format (expected YYYY-MM-DD): %w", err)
		}
	}
	if !toDate.After(fromDate) {
		return fmt.Errorf("end date must be after start date")
	}

	capital := cfg.Runner.InitialCapital
	if backtestCapital > 0 {
		capital = backtestCapital
	}

	symbols := splitSymbols(backtestSymbols)
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols given")
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	provider, err := buildProvider(cfg, store, log)
	if err != nil {
		return fmt.Errorf("building provider: %w", err)
	}

	strategies := buildStrategyRegistry(cfg)

	r := runner.New(provider, strategies, log)
	r.SetWorkers(cfg.Runner.Workers)
	if cfg.Runner.SaveReports && store != nil {
		r.SetStore(store)
	}

	if cfg.Metrics.Enabled {
		reg := metrics.NewRegistry()
		r.SetMetrics(reg)
		go serveMetrics(cfg.Metrics, reg, log)
	}

	reqs := make([]runner.Request, len(symbols))
	for i, symbol := range symbols {
		reqs[i] = runner.Request{
			Symbol:         symbol,
			Strategy:       strategyName,
			Start:          fromDate,
			End:            toDate,
			InitialCapital: capital,
			Interval:       cfg.Collector.Interval,
		}
	}

	outcomes := r.RunAll(context.Background(), reqs)
	printOutcomes(strategyName, fromDate, toDate, capital, outcomes)

	for _, o := range outcomes {
		if o.Err != nil {
			return fmt.Errorf("one or more backtests failed")
		}
	}
	return nil
}

func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Debug("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (blob.Store, error) {
	switch cfg.Storage.Type {
	case "s3":
		return blob.NewS3(blob.S3Config{
			Bucket:    cfg.Storage.S3.Bucket,
			Endpoint:  cfg.Storage.S3.Endpoint,
			Region:    cfg.Storage.S3.Region,
			AccessKey: cfg.Storage.S3.AccessKey,
			SecretKey: cfg.Storage.S3.SecretKey,
			Prefix:    cfg.Storage.S3.Prefix,
		})
	default:
		path := cfg.Storage.Path
		if path == "" {
			path = "data"
		}
		return blob.NewLocalFS(path)
	}
}

func buildProvider(cfg *config.Config, store blob.Store, log *zap.Logger) (collector.Provider, error) {
	providers := collector.NewRegistry()
	providers.Register(yahoo.New())

	name := cfg.Collector.Provider
	if name == "" {
		name = "yahoo"
	}
	provider, ok := providers.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", name)
	}

	if err := provider.Init(collector.Config{
		APIKey:  cfg.Collector.APIKey,
		Timeout: cfg.Collector.Timeout,
	}); err != nil {
		return nil, err
	}

	if cfg.Collector.Cache && store != nil {
		provider = cached.New(provider, store, log)
	}
	return provider, nil
}

func buildStrategyRegistry(cfg *config.Config) *strategy.Registry {
	reg := strategy.NewRegistry()

	// A strategy absent from the config is registered with default
	// parameters; an entry with enabled=false is skipped.
	if sc, ok := cfg.Strategies["sma_crossover"]; !ok || sc.Enabled {
		params := sc.Params
		reg.Register("sma_crossover", func() (strategy.Strategy, error) {
			return smacross.New(smacross.Config{
				ShortPeriod: intParam(params, "short_period", 20),
				LongPeriod:  intParam(params, "long_period", 50),
			})
		})
	}

	if sc, ok := cfg.Strategies["ema_crossover"]; !ok || sc.Enabled {
		params := sc.Params
		reg.Register("ema_crossover", func() (strategy.Strategy, error) {
			return emacross.New(emacross.Config{
				ShortPeriod: intParam(params, "short_period", 20),
				LongPeriod:  intParam(params, "long_period", 50),
			})
		})
	}

	return reg
}

// intParam reads an integer strategy parameter; YAML decoding may surface
// numbers as int, int64, or float64.
func intParam(params map[string]any, key string, fallback int) int {
	if params == nil {
		return fallback
	}
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func serveMetrics(cfg config.MetricsConfig, reg *metrics.Registry, log *zap.Logger) {
	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.Info("metrics listener starting", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Warn("metrics listener stopped", zap.Error(err))
	}
}

func splitSymbols(s string) []string {
	var symbols []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			symbols = append(symbols, trimmed)
		}
	}
	return symbols
}

func printOutcomes(strategyName string, from, to time.Time, capital float64, outcomes []runner.Outcome) {
	fmt.Println("=== Backlight Backtest ===")
	fmt.Printf("Strategy: %s\n", strategyName)
	fmt.Printf("Period:   %s to %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
	fmt.Printf("Capital:  %.2f\n", capital)
	fmt.Println()

	fmt.Printf("%-10s %12s %12s %8s %8s %8s %8s\n",
		"Symbol", "Total Ret %", "Annual %", "Sharpe", "MaxDD %", "Trades", "Win %")
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Printf("%-10s error: %v\n", o.Symbol, o.Err)
			continue
		}
		m := o.Report.Metrics
		fmt.Printf("%-10s %12.2f %12.2f %8.2f %8.2f %8d %8.1f\n",
			o.Symbol, m.TotalReturnPct, m.AnnualReturnPct, m.SharpeRatio,
			m.MaxDrawdownPct, m.TotalTrades, m.WinRatePct)
	}
}
