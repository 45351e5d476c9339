// Package metrics exposes Prometheus instrumentation for the submission
// pipeline and the HTTP layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/campus-hub/registration-hub/internal/domain/registration"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// Metrics holds the collectors for one server instance.
type Metrics struct {
	registry *prometheus.Registry

	SubmissionsCreated  prometheus.Counter
	SubmissionsAdvanced *prometheus.CounterVec
	SubmissionsRejected *prometheus.CounterVec
	SubmissionsApproved prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		SubmissionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "registration_hub",
			Name:      "submissions_created_total",
			Help:      "Submissions accepted into the approval pipeline.",
		}),
		SubmissionsAdvanced: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "registration_hub",
			Name:      "submissions_advanced_total",
			Help:      "Stage advancements, labelled by the stage entered.",
		}, []string{"to_status"}),
		SubmissionsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "registration_hub",
			Name:      "submissions_rejected_total",
			Help:      "Rejections, labelled by the stage they happened at.",
		}, []string{"from_status"}),
		SubmissionsApproved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "registration_hub",
			Name:      "submissions_approved_total",
			Help:      "Submissions that completed the full pipeline.",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "registration_hub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern, and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "registration_hub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// EventRecorder returns a bus subscriber that keeps the pipeline counters in
// step with the event stream.
func (m *Metrics) EventRecorder() shared.EventHandler {
	return func(event shared.Event) error {
		switch e := event.(type) {
		case registration.SubmissionCreatedEvent:
			m.SubmissionsCreated.Inc()
		case registration.SubmissionAdvancedEvent:
			m.SubmissionsAdvanced.WithLabelValues(string(e.ToStatus)).Inc()
			if e.ToStatus == registration.StatusApproved {
				m.SubmissionsApproved.Inc()
			}
		case registration.SubmissionRejectedEvent:
			m.SubmissionsRejected.WithLabelValues(string(e.FromStatus)).Inc()
		}
		return nil
	}
}
