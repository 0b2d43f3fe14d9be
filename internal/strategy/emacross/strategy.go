// Package emacross implements an exponential moving average crossover
// strategy. Same contract and warm-up semantics as the SMA variant, with
// EMAs weighting recent closes more heavily.
package emacross

import (
	"fmt"

	"github.com/quantfold/backlight/internal/core"
	"github.com/quantfold/backlight/internal/indicator"
)

// Config holds the crossover window lengths
type Config struct {
	ShortPeriod int
	LongPeriod  int
}

// Strategy compares a short and a long EMA of closing prices
type Strategy struct {
	cfg            Config
	series         core.PriceSeries
	initialCapital float64
	initialized    bool
}

// New validates the window configuration and creates the strategy
func New(cfg Config) (*Strategy, error) {
	if cfg.ShortPeriod <= 0 || cfg.LongPeriod <= 0 {
		return nil, core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("periods must be positive, got short=%d long=%d", cfg.ShortPeriod, cfg.LongPeriod))
	}
	if cfg.ShortPeriod >= cfg.LongPeriod {
		return nil, core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("short period %d must be less than long period %d", cfg.ShortPeriod, cfg.LongPeriod))
	}
	return &Strategy{cfg: cfg}, nil
}

func (s *Strategy) Name() string {
	return "ema_crossover"
}

func (s *Strategy) Description() string {
	return fmt.Sprintf("EMA Crossover (%d/%d)", s.cfg.ShortPeriod, s.cfg.LongPeriod)
}

func (s *Strategy) WarmupPeriod() int {
	return s.cfg.LongPeriod
}

// Initialize binds the price history and starting capital
func (s *Strategy) Initialize(series core.PriceSeries, initialCapital float64) error {
	if initialCapital <= 0 {
		return core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("initial capital must be positive, got %f", initialCapital))
	}
	if err := series.Validate(); err != nil {
		return err
	}

	s.series = series
	s.initialCapital = initialCapital
	s.initialized = true
	return nil
}

// GenerateSignals emits one regime-level signal per bar, flat until the
// long window is complete, holding the prior signal on an exact tie.
func (s *Strategy) GenerateSignals() (core.SignalSeries, error) {
	if !s.initialized {
		return nil, core.WrapError(core.ErrNotInitialized,
			fmt.Errorf("%s: Initialize must be called before GenerateSignals", s.Name()))
	}

	closes := s.series.Closes()
	signals := make(core.SignalSeries, len(closes))
	if len(closes) < s.cfg.LongPeriod {
		return signals, nil
	}

	short := indicator.EMA(closes, s.cfg.ShortPeriod)
	long := indicator.EMA(closes, s.cfg.LongPeriod)

	for i := s.cfg.LongPeriod - 1; i < len(closes); i++ {
		switch {
		case short[i] > long[i]:
			signals[i] = core.SignalLong
		case short[i] < long[i]:
			signals[i] = core.SignalShort
		default:
			if i > 0 {
				signals[i] = signals[i-1]
			}
		}
	}

	return signals, nil
}
