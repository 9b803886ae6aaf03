package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// OwnershipChecks counts user existence checks by outcome
	// (found, not_found, unavailable).
	OwnershipChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_ownership_checks_total",
		Help: "User existence checks performed before mutations",
	}, []string{"result"})

	// CascadeRuns counts post-delete cascades by outcome
	// (completed, partial, skipped).
	CascadeRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_cascade_runs_total",
		Help: "Comment cascades triggered by post deletion",
	}, []string{"outcome"})

	// CascadeCommentDeletes counts individual comment deletes issued by cascades.
	CascadeCommentDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_cascade_comment_deletes_total",
		Help: "Comment deletes issued during post-delete cascades",
	}, []string{"result"})

	// DownstreamLatency records service-to-service call latency.
	DownstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agora_downstream_request_seconds",
		Help:    "Latency of calls to other services",
		Buckets: prometheus.DefBuckets,
	}, []string{"target"})

	// DBQueryProblems counts failed and slow SQL statements by kind (error, slow).
	DBQueryProblems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_db_query_problems_total",
		Help: "SQL statements that failed or exceeded the slow threshold",
	}, []string{"kind"})

	// TrendingCacheLookups counts leaderboard cache hits and misses.
	TrendingCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_trending_cache_lookups_total",
		Help: "Trending leaderboard cache lookups by result",
	}, []string{"result"})
)

// ObserveDownstream records the latency of a call to target that started at start.
func ObserveDownstream(target string, start time.Time) {
	DownstreamLatency.WithLabelValues(target).Observe(time.Since(start).Seconds())
}
