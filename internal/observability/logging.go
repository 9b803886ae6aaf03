// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"sync/atomic"
)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.Default())
}

// SetLogger replaces the logger used by store and call logging.
func SetLogger(l *slog.Logger) {
	current.Store(l)
}

func log() *slog.Logger { return current.Load() }

// RepoLogger writes store events for one table. Successful writes log at
// debug; failures at error.
type RepoLogger struct {
	table string
}

func NewRepoLogger(table string) *RepoLogger {
	return &RepoLogger{table: table}
}

// Write records a successful mutation. attrs are slog key/value pairs.
func (l *RepoLogger) Write(ctx context.Context, operation string, attrs ...any) {
	attrs = append([]any{slog.String("table", l.table), slog.String("operation", operation)}, attrs...)
	log().DebugContext(ctx, "store "+operation, attrs...)
}

func (l *RepoLogger) Fail(ctx context.Context, operation string, err error) {
	log().ErrorContext(ctx, "store error",
		slog.String("table", l.table),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// LogServiceCall logs an outbound call to another service. Transport
// failures are warnings; any HTTP answer is debug.
func LogServiceCall(ctx context.Context, target, method, url string, status int, err error) {
	attrs := []any{
		slog.String("target", target),
		slog.String("method", method),
		slog.String("url", url),
	}
	if err != nil {
		log().WarnContext(ctx, "service call failed", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	log().DebugContext(ctx, "service call", append(attrs, slog.Int("status", status))...)
}
