// Package middleware provides the request pipeline shared by every service:
// context-aware logging, tracing, rate limiting and bearer authentication.
package middleware

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

var errNoStore = errors.New("rate limit store not configured")

// RateLimitConfig describes one fixed-window limit.
type RateLimitConfig struct {
	Name   string
	Limit  int
	Window time.Duration
	Policy FailPolicy
	// Bypass turns the limiter into a no-op.
	Bypass bool
}

// RateLimiter counts hits per client in Redis, one key per window.
type RateLimiter struct {
	rdb *redis.Client
	cfg RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{rdb: rdb, cfg: cfg}
}

// Decision is the result of one hit.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Hit records one request from client. The counter and its expiry are set
// in one MULTI; later hits never extend the window.
func (l *RateLimiter) Hit(ctx context.Context, client string) (Decision, error) {
	if l.cfg.Bypass {
		return Decision{Allowed: true, Remaining: l.cfg.Limit}, nil
	}
	if l.rdb == nil {
		return Decision{}, errNoStore
	}

	key := "rl:" + l.cfg.Name + ":" + client
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.cfg.Window)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return Decision{}, err
	}

	count := int(incr.Val())
	d := Decision{Allowed: count <= l.cfg.Limit, Remaining: max(l.cfg.Limit-count, 0)}
	if !d.Allowed {
		d.RetryAfter = ttl.Val()
		if d.RetryAfter <= 0 {
			d.RetryAfter = l.cfg.Window
		}
	}
	return d, nil
}

// Handler limits requests by the authenticated user when known and by the
// remote IP otherwise.
func (l *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		client := "ip:" + c.IP()
		if uid := UserID(c); uid != "" {
			client = "user:" + uid
		}

		d, err := l.Hit(c.UserContext(), client)
		if err != nil {
			if l.cfg.Policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable, rejecting",
					"limit", l.cfg.Name, "error", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
					Error: "Rate limit unavailable",
				})
			}
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		}
		return c.Next()
	}
}
