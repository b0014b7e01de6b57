package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "sharpen"

type metricsObserver struct {
	useCases        *prometheus.CounterVec
	useCaseDuration *prometheus.HistogramVec
	completed       *prometheus.CounterVec
	scores          *prometheus.HistogramVec
	denied          prometheus.Counter
}

// NewMetricsObserver registers session metrics on reg and records them from
// use-case events.
func NewMetricsObserver(reg prometheus.Registerer) UseCaseObserver {
	factory := promauto.With(reg)
	return &metricsObserver{
		useCases: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "service",
			Name:      "use_cases_total",
			Help:      "Service use cases by name and outcome.",
		}, []string{"use_case", "outcome"}),
		useCaseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "service",
			Name:      "use_case_duration_seconds",
			Help:      "Service use case latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"use_case"}),
		completed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sessions",
			Name:      "completed_total",
			Help:      "Completed sessions by kind and completion reason.",
		}, []string{"kind", "reason"}),
		scores: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "sessions",
			Name:      "composite_score",
			Help:      "Composite score of completed sessions.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}, []string{"kind"}),
		denied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sessions",
			Name:      "access_denied_total",
			Help:      "Session starts refused for missing entitlement.",
		}),
	}
}

func (o *metricsObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	outcome := "success"
	if !event.Success {
		outcome = "error"
	}
	o.useCases.WithLabelValues(event.Name, outcome).Inc()
	o.useCaseDuration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())

	if event.Err != nil && errors.Is(event.Err, domain.ErrAccessDenied) {
		o.denied.Inc()
	}
	if !event.Success {
		return
	}
	kind, _ := event.Fields["kind"].(string)
	reason, _ := event.Fields["reason"].(string)
	score, hasScore := event.Fields["score"].(int)
	if reason == "" || !hasScore {
		return
	}
	o.completed.WithLabelValues(kind, reason).Inc()
	o.scores.WithLabelValues(kind).Observe(float64(score))
}
