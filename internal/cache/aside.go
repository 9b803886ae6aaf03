package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"agora/internal/middleware"
	"agora/internal/observability"

	"github.com/redis/go-redis/v9"
)

const trendingKeyPrefix = "trending:"

// TrendingKey is the cache key of the named leaderboard.
func TrendingKey(board string) string {
	return trendingKeyPrefix + board
}

// Invalidate removes key. It is a no-op without a client.
func Invalidate(ctx context.Context, rdb *redis.Client, key string) {
	if rdb != nil {
		rdb.Del(ctx, key)
	}
}

// Aside serves dest from key when present. On a miss it calls fetch, which
// must fill dest, and stores the result for ttl. A nil client or ttl <= 0
// disables the cache. Redis failures are logged and fall through to fetch;
// fetch errors are returned and never cached.
func Aside(ctx context.Context, rdb *redis.Client, key string, dest any, ttl time.Duration, fetch func() error) error {
	if rdb == nil || ttl <= 0 {
		return fetch()
	}

	if read(ctx, rdb, key, dest) {
		observability.TrendingCacheLookups.WithLabelValues("hit").Inc()
		return nil
	}
	observability.TrendingCacheLookups.WithLabelValues("miss").Inc()

	if err := fetch(); err != nil {
		return err
	}
	write(ctx, rdb, key, dest, ttl)
	return nil
}

func read(ctx context.Context, rdb *redis.Client, key string, dest any) bool {
	raw, err := rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false
	case err != nil:
		warn(ctx, "cache read failed", key, err)
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// Unreadable entries are dropped so the next fetch replaces them.
		warn(ctx, "cache entry corrupt", key, err)
		rdb.Del(ctx, key)
		return false
	}
	return true
}

func write(ctx context.Context, rdb *redis.Client, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err == nil {
		err = rdb.Set(ctx, key, raw, ttl).Err()
	}
	if err != nil {
		warn(ctx, "cache write failed", key, err)
	}
}

func warn(ctx context.Context, msg, key string, err error) {
	middleware.Logger.WarnContext(ctx, msg, slog.String("key", key), slog.String("error", err.Error()))
}
