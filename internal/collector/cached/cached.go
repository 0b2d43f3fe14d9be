// Package cached wraps a data provider with a persistent read-through
// cache, so repeated backtests over the same symbol and range hit the
// local store instead of the remote API.
package cached

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quantfold/backlight/internal/collector"
	"github.com/quantfold/backlight/internal/core"
	"github.com/quantfold/backlight/internal/storage/blob"
)

// Provider decorates another Provider with caching
type Provider struct {
	inner  collector.Provider
	store  blob.Store
	logger *zap.Logger
}

// New creates a caching decorator around the given provider
func New(inner collector.Provider, store blob.Store, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		inner:  inner,
		store:  store,
		logger: logger,
	}
}

func (p *Provider) Name() string {
	return p.inner.Name()
}

func (p *Provider) Init(cfg collector.Config) error {
	return p.inner.Init(cfg)
}

// FetchHistory serves from the cache when a matching fetch was stored
// before, and otherwise delegates and stores the result. Cache failures are
// logged and bypassed; they never fail the fetch.
func (p *Provider) FetchHistory(ctx context.Context, symbol string, start, end time.Time, interval string) (core.PriceSeries, error) {
	key := cacheKey(p.inner.Name(), symbol, start, end, interval)

	if data, err := p.store.Get(ctx, key); err == nil {
		var series core.PriceSeries
		if err := json.Unmarshal(data, &series); err == nil {
			p.logger.Debug("cache hit",
				zap.String("symbol", symbol),
				zap.String("key", key),
			)
			return series, nil
		}
		p.logger.Warn("discarding unreadable cache entry", zap.String("key", key))
	}

	series, err := p.inner.FetchHistory(ctx, symbol, start, end, interval)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(series); err == nil {
		if err := p.store.Put(ctx, key, data); err != nil {
			p.logger.Warn("caching fetched series failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	return series, nil
}

func cacheKey(provider, symbol string, start, end time.Time, interval string) string {
	return fmt.Sprintf("cache/%s/%s_%s_%s_%s.json",
		provider, symbol, start.Format("20060102"), end.Format("20060102"), interval)
}
