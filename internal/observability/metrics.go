// Package observability provides Prometheus metric vectors shared across packages.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// SessionsCreated counts login/signup sessions established.
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warbler_sessions_created_total",
		Help: "Total number of sessions created",
	})

	// SessionsDestroyed counts explicit logouts and account deletions.
	SessionsDestroyed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warbler_sessions_destroyed_total",
		Help: "Total number of sessions destroyed",
	})
)
