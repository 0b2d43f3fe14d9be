package core

import (
	"errors"
	"testing"
	"time"
)

func daily(closes ...float64) PriceSeries {
	base := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	series := make(PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = Bar{
			Time:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return series
}

func TestPriceSeries_Closes(t *testing.T) {
	series := daily(100, 101, 102)
	closes := series.Closes()

	if len(closes) != 3 {
		t.Fatalf("expected 3 closes, got %d", len(closes))
	}
	for i, want := range []float64{100, 101, 102} {
		if closes[i] != want {
			t.Errorf("closes[%d] = %f, want %f", i, closes[i], want)
		}
	}
}

func TestPriceSeries_Validate_OK(t *testing.T) {
	if err := daily(100, 101, 99).Validate(); err != nil {
		t.Errorf("valid series should pass, got %v", err)
	}
	if err := (PriceSeries{}).Validate(); err != nil {
		t.Errorf("empty series has nothing to violate, got %v", err)
	}
}

func TestPriceSeries_Validate_DuplicateTimestamp(t *testing.T) {
	series := daily(100, 101)
	series[1].Time = series[0].Time

	err := series.Validate()
	if !errors.Is(err, ErrDataIntegrity) {
		t.Errorf("expected DATA_INTEGRITY, got %v", err)
	}
}

func TestPriceSeries_Validate_NonMonotonic(t *testing.T) {
	series := daily(100, 101, 102)
	series[2].Time = series[0].Time.AddDate(0, 0, -1)

	err := series.Validate()
	if !errors.Is(err, ErrDataIntegrity) {
		t.Errorf("expected DATA_INTEGRITY, got %v", err)
	}
}

func TestPriceSeries_Validate_NonPositivePrice(t *testing.T) {
	series := daily(100, 101)
	series[1].Close = 0

	err := series.Validate()
	if !errors.Is(err, ErrDataIntegrity) {
		t.Errorf("expected DATA_INTEGRITY, got %v", err)
	}
}

func TestPriceSeries_Span(t *testing.T) {
	series := daily(100, 101, 102)
	if got := series.Span(); got != 48*time.Hour {
		t.Errorf("Span = %v, want 48h", got)
	}
	if got := daily(100).Span(); got != 0 {
		t.Errorf("single-bar span should be 0, got %v", got)
	}
}

func TestSignal_Valid(t *testing.T) {
	for _, s := range []Signal{SignalShort, SignalFlat, SignalLong} {
		if !s.Valid() {
			t.Errorf("signal %d should be valid", s)
		}
	}
	if Signal(2).Valid() {
		t.Error("signal 2 should be invalid")
	}
	if Signal(-2).Valid() {
		t.Error("signal -2 should be invalid")
	}
}

func TestEquityCurve_Final(t *testing.T) {
	curve := EquityCurve{
		{Value: 10000},
		{Value: 10500},
		{Value: 10250},
	}
	if curve.Final() != 10250 {
		t.Errorf("Final = %f, want 10250", curve.Final())
	}
	if (EquityCurve{}).Final() != 0 {
		t.Error("empty curve should report 0")
	}
}

func TestTrade_IsWin(t *testing.T) {
	if !(Trade{ReturnPct: 2.5}).IsWin() {
		t.Error("positive return should be a win")
	}
	if (Trade{ReturnPct: -1.0}).IsWin() {
		t.Error("negative return should not be a win")
	}
	if (Trade{ReturnPct: 0}).IsWin() {
		t.Error("flat trade should not be a win")
	}
}
