// Package observability provides Prometheus metrics for the notification pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gazette_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// JobsProcessed counts fan-out jobs by terminal outcome
	// (delivered, retried, dead, noop).
	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gazette_notify_jobs_total",
		Help: "Total number of notification jobs processed by outcome",
	}, []string{"outcome"})

	// MailsSent counts outbound messages by result (delivered, transient, permanent).
	MailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gazette_mails_sent_total",
		Help: "Total number of outbound mail attempts by result",
	}, []string{"result"})

	// DigestRecipients counts digest recipients by disposition (notified, skipped, failed).
	DigestRecipients = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gazette_digest_recipients_total",
		Help: "Total number of digest recipients by disposition",
	}, []string{"disposition"})

	// CacheInvalidations counts cache invalidation attempts by result.
	CacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gazette_cache_invalidations_total",
		Help: "Total number of cache invalidation attempts by result",
	}, []string{"result"})
)
