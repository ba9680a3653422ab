package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"intrinsic_valuation/pkg/core/metrics"
)

const cachePrefix = "history:"

// CachedProvider is a read-through Redis cache in front of another Provider.
// Redis failures are logged and never fail a lookup.
type CachedProvider struct {
	next    Provider
	rdb     redis.Cmdable
	ttl     time.Duration
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewCachedProvider wraps next. m may be nil.
func NewCachedProvider(next Provider, rdb redis.Cmdable, ttl time.Duration, log *zap.Logger, m *metrics.Metrics) *CachedProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedProvider{next: next, rdb: rdb, ttl: ttl, log: log.Named("history_cache"), metrics: m}
}

func (p *CachedProvider) History(ctx context.Context, ticker string) ([]float64, error) {
	symbol, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	key := cachePrefix + symbol

	data, err := p.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var closes []float64
		if uerr := json.Unmarshal(data, &closes); uerr == nil {
			p.record(true)
			return closes, nil
		}
		p.log.Warn("discarding corrupt cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		p.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	p.record(false)

	closes, err := p.next.History(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(closes); err == nil {
		if err := p.rdb.Set(ctx, key, payload, p.ttl).Err(); err != nil {
			p.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return closes, nil
}

func (p *CachedProvider) record(hit bool) {
	if p.metrics != nil {
		p.metrics.RecordCacheAccess(hit)
	}
}
