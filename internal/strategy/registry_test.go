package strategy

import (
	"errors"
	"testing"

	"github.com/quantfold/backlight/internal/core"
)

type stubStrategy struct {
	name string
}

func (s *stubStrategy) Name() string        { return s.name }
func (s *stubStrategy) Description() string { return "stub" }
func (s *stubStrategy) WarmupPeriod() int   { return 0 }
func (s *stubStrategy) Initialize(series core.PriceSeries, initialCapital float64) error {
	return nil
}
func (s *stubStrategy) GenerateSignals() (core.SignalSeries, error) {
	return nil, nil
}

func TestRegistry_BuildReturnsFreshInstance(t *testing.T) {
	reg := NewRegistry()
	reg.Register("stub", func() (Strategy, error) {
		return &stubStrategy{name: "stub"}, nil
	})

	first, err := reg.Build("stub")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	second, err := reg.Build("stub")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if first == second {
		t.Error("each Build should return a distinct instance")
	}
}

func TestRegistry_BuildUnknown(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Build("missing")
	if !errors.Is(err, core.ErrStrategyNotFound) {
		t.Errorf("expected STRATEGY_NOT_FOUND, got %v", err)
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b_strategy", func() (Strategy, error) { return &stubStrategy{name: "b"}, nil })
	reg.Register("a_strategy", func() (Strategy, error) { return &stubStrategy{name: "a"}, nil })

	names := reg.Names()
	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %d", len(names))
	}
	if names[0] != "a_strategy" || names[1] != "b_strategy" {
		t.Errorf("expected sorted names, got %v", names)
	}
}
