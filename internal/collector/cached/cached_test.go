package cached

import (
	"context"
	"testing"
	"time"

	"github.com/quantfold/backlight/internal/collector"
	"github.com/quantfold/backlight/internal/core"
	"github.com/quantfold/backlight/internal/storage/blob"
)

type countingProvider struct {
	calls  int
	series core.PriceSeries
	err    error
}

func (c *countingProvider) Name() string                    { return "counting" }
func (c *countingProvider) Init(cfg collector.Config) error { return nil }
func (c *countingProvider) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) (core.PriceSeries, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.series, nil
}

func testSeries() core.PriceSeries {
	base := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	return core.PriceSeries{
		{Time: base, Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 1000},
		{Time: base.AddDate(0, 0, 1), Open: 100.5, High: 102, Low: 100, Close: 101.5, Volume: 1100},
	}
}

func TestFetchHistory_SecondCallHitsCache(t *testing.T) {
	store, err := blob.NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS() error = %v", err)
	}

	inner := &countingProvider{series: testSeries()}
	p := New(inner, store, nil)

	ctx := context.Background()
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	first, err := p.FetchHistory(ctx, "AAPL", start, end, "1d")
	if err != nil {
		t.Fatalf("first FetchHistory() error = %v", err)
	}
	second, err := p.FetchHistory(ctx, "AAPL", start, end, "1d")
	if err != nil {
		t.Fatalf("second FetchHistory() error = %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("inner provider called %d times, want 1", inner.calls)
	}
	if len(first) != len(second) {
		t.Fatalf("cached series length %d != fetched length %d", len(second), len(first))
	}
	for i := range first {
		if !first[i].Time.Equal(second[i].Time) || first[i].Close != second[i].Close {
			t.Errorf("bar %d differs after cache round trip", i)
		}
	}
}

func TestFetchHistory_DistinctRangesAreDistinctEntries(t *testing.T) {
	store, err := blob.NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS() error = %v", err)
	}

	inner := &countingProvider{series: testSeries()}
	p := New(inner, store, nil)

	ctx := context.Background()
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

	if _, err := p.FetchHistory(ctx, "AAPL", start, start.AddDate(0, 0, 2), "1d"); err != nil {
		t.Fatalf("FetchHistory() error = %v", err)
	}
	if _, err := p.FetchHistory(ctx, "AAPL", start, start.AddDate(0, 0, 5), "1d"); err != nil {
		t.Fatalf("FetchHistory() error = %v", err)
	}

	if inner.calls != 2 {
		t.Errorf("different ranges should not share cache entries, calls = %d", inner.calls)
	}
}

func TestFetchHistory_ProviderErrorNotCached(t *testing.T) {
	store, err := blob.NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS() error = %v", err)
	}

	inner := &countingProvider{err: core.ErrNoData}
	p := New(inner, store, nil)

	ctx := context.Background()
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

	if _, err := p.FetchHistory(ctx, "AAPL", start, start.AddDate(0, 0, 2), "1d"); err == nil {
		t.Fatal("expected provider error to propagate")
	}

	keys, err := store.Keys(ctx, "cache/")
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("failed fetches must not leave cache entries, got %v", keys)
	}
}
