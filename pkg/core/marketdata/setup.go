package marketdata

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"intrinsic_valuation/pkg/core/config"
	"intrinsic_valuation/pkg/core/metrics"
)

// FromConfig builds the chart client, wrapped in the Redis cache when a Redis
// address is configured. The returned func closes the Redis client.
func FromConfig(cfg config.Config, log *zap.Logger, m *metrics.Metrics) (Provider, func()) {
	client := NewChartClient(cfg.MarketData)
	if cfg.Redis.Addr == "" {
		return client, func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return NewCachedProvider(client, rdb, cfg.Redis.TTL, log, m), func() { _ = rdb.Close() }
}
