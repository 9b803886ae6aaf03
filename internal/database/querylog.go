package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"agora/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// queryLogger sends gorm output to slog. Only failed and slow statements
// are logged unless the level is raised to Info.
type queryLogger struct {
	log   *slog.Logger
	level logger.LogLevel
	slow  time.Duration
}

func newQueryLogger(l *slog.Logger, slow time.Duration) *queryLogger {
	return &queryLogger{log: l, level: logger.Warn, slow: slow}
}

func (q *queryLogger) LogMode(level logger.LogLevel) logger.Interface {
	c := *q
	c.level = level
	return &c
}

func (q *queryLogger) emit(ctx context.Context, at logger.LogLevel, lvl slog.Level, msg string, data []interface{}) {
	if q.level >= at {
		q.log.Log(ctx, lvl, fmt.Sprintf(msg, data...))
	}
}

func (q *queryLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	q.emit(ctx, logger.Info, slog.LevelInfo, msg, data)
}

func (q *queryLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	q.emit(ctx, logger.Warn, slog.LevelWarn, msg, data)
}

func (q *queryLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	q.emit(ctx, logger.Error, slog.LevelError, msg, data)
}

// Trace is called by gorm after every statement. Missing rows are not errors.
func (q *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := q.slow > 0 && elapsed > q.slow

	var (
		lvl  slog.Level
		msg  string
		kind string
	)
	switch {
	case failed && q.level >= logger.Error:
		lvl, msg, kind = slog.LevelError, "query failed", "error"
	case slow && q.level >= logger.Warn:
		lvl, msg, kind = slog.LevelWarn, "slow query", "slow"
	case q.level >= logger.Info:
		lvl, msg = slog.LevelInfo, "query"
	default:
		return
	}
	if kind != "" {
		observability.DBQueryProblems.WithLabelValues(kind).Inc()
	}

	sql, rows := fc()
	attrs := []slog.Attr{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}
	if failed {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	q.log.LogAttrs(ctx, lvl, msg, attrs...)
}
