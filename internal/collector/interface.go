package collector

import (
	"context"
	"time"

	"github.com/quantfold/backlight/internal/core"
)

// Config holds provider configuration
type Config struct {
	APIKey  string
	Timeout time.Duration
	Extra   map[string]any
}

// Provider fetches historical price data for one symbol at a fixed
// frequency. A fetch failure (unknown symbol, empty range, transport error)
// surfaces as a distinguishable error, never as an empty-but-valid series.
type Provider interface {
	Name() string
	Init(cfg Config) error

	// FetchHistory returns a validated PriceSeries covering [start, end]
	// inclusive for the given symbol and bar interval (e.g. "1d").
	FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) (core.PriceSeries, error)
}
