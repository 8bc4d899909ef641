package appeal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	appealTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deliberate",
		Subsystem: "appeals",
		Name:      "transitions_total",
		Help:      "Appeal state transitions, by resulting status.",
	}, []string{"status"})

	eventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deliberate",
		Subsystem: "appeals",
		Name:      "event_publish_failures_total",
		Help:      "Domain events that could not be published.",
	}, []string{"event_type"})
)
