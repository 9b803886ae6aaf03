// Package cache holds the Redis client and the read-through helpers built on it.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/internal/middleware"
	"agora/internal/observability"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

const (
	pingTimeout = 5 * time.Second
	dialTimeout = time.Second
)

// errorCounter feeds agora_redis_error_rate_total. redis.Nil is a miss, not an error.
type errorCounter struct{}

func (errorCounter) DialHook(next redis.DialHook) redis.DialHook { return next }

func (errorCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		count(cmd.Name(), err)
		return err
	}
}

func (errorCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		count("pipeline", err)
		return err
	}
}

func count(op string, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		observability.RedisErrorRate.WithLabelValues(op).Inc()
	}
}

// options accepts either host:port or a redis:// URL.
func options(addr string) (*redis.Options, error) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		var err error
		if opts, err = redis.ParseURL(addr); err != nil {
			return nil, err
		}
	}
	// A dead Redis must fail a command fast; callers fall back on error.
	// Values set in a redis:// URL are kept.
	if opts.DialTimeout == 0 {
		opts.DialTimeout = dialTimeout
	}
	if opts.DialerRetries == 0 {
		opts.DialerRetries = 1
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = -1
	}
	// Servers without the maintenance subcommand reject the handshake.
	opts.MaintNotificationsConfig = &maintnotifications.Config{Mode: maintnotifications.ModeDisabled}
	return opts, nil
}

// Connect returns a pinged client for addr, or nil when Redis is
// misconfigured or unreachable. Callers run uncached on nil.
func Connect(ctx context.Context, addr string) *redis.Client {
	log := middleware.Logger.With(slog.String("addr", addr))

	opts, err := options(addr)
	if err != nil {
		log.WarnContext(ctx, "invalid REDIS_URL, continuing without cache", slog.String("error", err.Error()))
		return nil
	}

	client := redis.NewClient(opts)
	client.AddHook(errorCounter{})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WarnContext(ctx, "redis unreachable, continuing without cache", slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}
	log.InfoContext(ctx, "redis connected")
	return client
}
