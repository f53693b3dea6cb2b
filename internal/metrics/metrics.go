package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	eventsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beholder",
			Subsystem: "events",
			Name:      "dispatched_total",
			Help:      "Number of inbound events dispatched to a handler.",
		}, []string{"topic"},
	)
	eventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beholder",
			Subsystem: "events",
			Name:      "dropped_total",
			Help:      "Number of inbound events dropped (unknown topic or decode failure).",
		}, []string{"topic", "reason"},
	)
	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "beholder",
			Subsystem: "notify",
			Name:      "deliveries_total",
			Help:      "Number of notification deliveries by kind and outcome.",
		}, []string{"kind", "outcome"},
	)
	sweepRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "beholder",
			Subsystem: "sweep",
			Name:      "runs_total",
			Help:      "Number of completed ETA sweep runs.",
		},
	)
	sweepSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "beholder",
			Subsystem: "sweep",
			Name:      "skipped_total",
			Help:      "Number of sweep ticks skipped because a run was in flight.",
		},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	collectors := []prometheus.Collector{
		eventsDispatched,
		eventsDropped,
		notifications,
		sweepRuns,
		sweepSkipped,
	}
	for _, collector := range collectors {
		if err := r.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler serves the default registry over HTTP.
func Handler() http.Handler {
	return promhttp.Handler()
}

// EventDispatched records a successful handler dispatch for a topic.
func EventDispatched(topic string) {
	eventsDispatched.WithLabelValues(topic).Inc()
}

// EventDropped records a dropped inbound event.
func EventDropped(topic, reason string) {
	eventsDropped.WithLabelValues(topic, reason).Inc()
}

// NotificationSent records a delivered notification of the given kind.
func NotificationSent(kind string) {
	notifications.WithLabelValues(kind, "ok").Inc()
}

// NotificationFailed records a failed notification of the given kind.
func NotificationFailed(kind string) {
	notifications.WithLabelValues(kind, "error").Inc()
}

// SweepRun records a completed ETA sweep.
func SweepRun() {
	sweepRuns.Inc()
}

// SweepSkipped records a sweep tick skipped due to an in-flight run.
func SweepSkipped() {
	sweepSkipped.Inc()
}
