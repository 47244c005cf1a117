package saga

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trading_saga_transitions_total",
		Help: "Committed purchase saga transitions",
	}, []string{"from", "topic", "to"})

	ignoredEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trading_saga_events_ignored_total",
		Help: "Duplicate or late events absorbed by the idempotency guards",
	}, []string{"state", "topic"})

	unexpectedEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trading_saga_events_unexpected_total",
		Help: "Events that are a protocol anomaly for the state they arrived in",
	}, []string{"state", "topic"})

	saveConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trading_saga_save_conflicts_total",
		Help: "Optimistic concurrency conflicts that forced a transition retry",
	})
)
