// Package metrics holds the Prometheus collectors PitchHub exports on /metrics.
//
// Collectors are package-level and registered with the default registry by
// promauto, so any package can record an event without plumbing a handle.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LikeToggles counts completed toggles by outcome ("liked" / "unliked").
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pitchhub_like_toggles_total",
		Help: "Total number of like toggles by resulting state",
	}, []string{"result"})

	// LikeConflicts counts inserts that lost a race against a concurrent
	// like from the same user on the same pitch.
	LikeConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pitchhub_like_conflicts_total",
		Help: "Total number of like inserts rejected by the uniqueness constraint",
	})

	// NotificationsCreated counts notifications persisted, by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pitchhub_notifications_created_total",
		Help: "Total number of notifications created by type",
	}, []string{"type"})

	// FanoutFailures counts best-effort notification inserts that failed
	// after the primary write had already committed.
	FanoutFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pitchhub_fanout_failures_total",
		Help: "Total number of notification fan-out failures by type",
	}, []string{"type"})

	// MessagesSent counts direct messages stored.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pitchhub_messages_sent_total",
		Help: "Total number of direct messages sent",
	})

	// HTTPRequestDuration records request latency by method, route pattern and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pitchhub_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// ObserveRequest records one finished HTTP request. route should be the
// router pattern ("/api/pitches/{id}"), not the raw path, to keep label
// cardinality bounded.
func ObserveRequest(method, route string, status int, start time.Time) {
	HTTPRequestDuration.
		WithLabelValues(method, route, strconv.Itoa(status)).
		Observe(time.Since(start).Seconds())
}

// RecordToggle increments LikeToggles for the resulting state.
func RecordToggle(liked bool) {
	result := "unliked"
	if liked {
		result = "liked"
	}
	LikeToggles.WithLabelValues(result).Inc()
}
