package chat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// messagesTotal counts handled messages by branch and outcome
	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rina_messages_total",
		Help: "Messages handled by branch and outcome",
	}, []string{"branch", "outcome"})

	// handleDuration tracks end-to-end handling latency
	handleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rina_handle_duration_seconds",
		Help:    "Message handling duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
	}, []string{"branch"})

	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rina_rate_limited_total",
		Help: "Messages rejected by the rate limiter",
	})

	rateLimitFailOpenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rina_rate_limit_fail_open_total",
		Help: "Messages admitted because the counter store failed",
	})

	// persistenceFailures counts swallowed write failures by kind
	persistenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rina_persistence_failures_total",
		Help: "Swallowed persistence failures by kind",
	}, []string{"kind"})
)
