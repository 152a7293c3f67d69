package cache

import (
	"context"
	"log/slog"
	"time"
)

// UserStatisticsKey is the cache entry holding the aggregated user report.
// Every mutation that changes user counts must invalidate it.
const UserStatisticsKey = "user_statistics"

// StatsGate invalidates cached statistics after user or enrollment mutations.
// Implementations must never fail the calling mutation: invalidation errors
// are logged and swallowed so a cache outage only means stale stats until TTL.
type StatsGate interface {
	Invalidate(ctx context.Context)
}

// RedisStatsGate invalidates the stats cache backed by Redis
type RedisStatsGate struct {
	helper *CacheHelper
	logger *slog.Logger
}

// NewRedisStatsGate creates a stats gate over the given cache helper
func NewRedisStatsGate(helper *CacheHelper, logger *slog.Logger) *RedisStatsGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStatsGate{
		helper: helper,
		logger: logger,
	}
}

func (g *RedisStatsGate) Invalidate(ctx context.Context) {
	if err := g.helper.Delete(ctx, StatsCacheConfig.Prefix+UserStatisticsKey); err != nil {
		g.logger.ErrorContext(ctx, "Failed to invalidate stats cache",
			"error", err,
			"key", StatsCacheConfig.Prefix+UserStatisticsKey)
	}
}

// GetStatistics reads the cached statistics report into dest
func (g *RedisStatsGate) GetStatistics(ctx context.Context, dest interface{}) error {
	return g.helper.GetWithConfig(ctx, UserStatisticsKey, dest, StatsCacheConfig)
}

// SetStatistics stores the statistics report with the stats TTL
func (g *RedisStatsGate) SetStatistics(ctx context.Context, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = StatsCacheConfig.TTL
	}
	return g.helper.Set(ctx, StatsCacheConfig.Prefix+UserStatisticsKey, value, ttl)
}

// NoopStatsGate is used when Redis is not configured
type NoopStatsGate struct{}

func NewNoopStatsGate() *NoopStatsGate { return &NoopStatsGate{} }

func (NoopStatsGate) Invalidate(ctx context.Context) {}
