package strategy

import (
	"github.com/quantfold/backlight/internal/core"
)

// Strategy converts a bound price history into per-bar directional intent.
// Implementations must be initialized before signal generation; calling
// GenerateSignals first fails with core.ErrNotInitialized.
type Strategy interface {
	Name() string
	Description() string

	// WarmupPeriod is the number of bars the strategy needs before it can
	// emit a non-flat signal. Bars inside the warm-up window are always flat.
	WarmupPeriod() int

	// Initialize binds the price history and starting capital for a run.
	Initialize(series core.PriceSeries, initialCapital float64) error

	// GenerateSignals returns exactly one signal per bar of the bound
	// series, each value in {-1, 0, +1}.
	GenerateSignals() (core.SignalSeries, error)
}

// Builder constructs a fresh strategy instance for a single run. Parameter
// validation happens here, at construction time, not when the run starts.
type Builder func() (Strategy, error)
