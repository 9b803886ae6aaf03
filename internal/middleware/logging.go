package middleware

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger is the process logger. bootstrap replaces it with a service-scoped one.
var Logger = NewLogger(os.Getenv("APP_ENV"), "")

const (
	localRequestID = "requestid"
	localTraceID   = "traceID"
)

type ctxKey struct{ name string }

// requestFields maps fiber locals to the log attribute carried on every
// record written with the request context.
var requestFields = []struct {
	local string
	key   ctxKey
}{
	{localRequestID, ctxKey{"request_id"}},
	{LocalUserID, ctxKey{"user_id"}},
	{localTraceID, ctxKey{"trace_id"}},
}

type ctxHandler struct {
	slog.Handler
}

func (h ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, f := range requestFields {
		if v, ok := ctx.Value(f.key).(string); ok && v != "" {
			r.AddAttrs(slog.String(f.key.name, v))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h ctxHandler) WithGroup(name string) slog.Handler {
	return ctxHandler{h.Handler.WithGroup(name)}
}

// NewLogger returns a JSON logger in production and a text logger elsewhere.
// Development runs log at debug.
func NewLogger(env, service string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "" || env == "development" {
		opts.Level = slog.LevelDebug
	}

	var base slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if env == "production" || env == "prod" {
		base = slog.NewJSONHandler(os.Stdout, opts)
	}

	l := slog.New(ctxHandler{base})
	if service != "" {
		l = l.With(slog.String("service", service))
	}
	return l
}

// ContextMiddleware copies request-scoped locals into the user context.
// Register it after requestid and tracing.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		for _, f := range requestFields {
			if v, ok := c.Locals(f.local).(string); ok {
				ctx = context.WithValue(ctx, f.key, v)
			}
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// StructuredLogger writes one record per request. The matched route is
// logged next to the raw path so records group by endpoint.
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("route", c.Route().Path),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Int("bytes", len(c.Response().Body())),
			slog.String("ip", c.IP()),
			slog.Duration("latency", time.Since(start)),
		}

		ctx := c.UserContext()
		switch {
		case err != nil:
			Logger.ErrorContext(ctx, "request failed", append(attrs, slog.String("error", err.Error()))...)
		case status >= fiber.StatusInternalServerError:
			Logger.WarnContext(ctx, "request completed", attrs...)
		default:
			Logger.InfoContext(ctx, "request completed", attrs...)
		}
		return err
	}
}
