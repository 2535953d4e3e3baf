package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

var (
	relationshipMetricsOnce sync.Once

	relationshipRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relationship_requests_total",
			Help: "Total number of relationship create attempts",
		},
		[]string{"status"},
	)

	relationshipUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relationship_updates_total",
			Help: "Total number of relationship status update attempts",
		},
		[]string{"status"},
	)

	relationshipDeletesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relationship_deletes_total",
			Help: "Total number of relationship delete attempts",
		},
		[]string{"status"},
	)

	relationshipLimitHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relationship_limit_hits_total",
			Help: "Total number of accepts rejected by the relationship cap",
		},
	)
)

func RegisterRelationshipMetrics() {
	relationshipMetricsOnce.Do(func() {
		prometheus.MustRegister(
			relationshipRequestsTotal,
			relationshipUpdatesTotal,
			relationshipDeletesTotal,
			relationshipLimitHitsTotal,
		)
	})
}

func IncRelationshipRequest(status string) {
	RegisterRelationshipMetrics()
	relationshipRequestsTotal.WithLabelValues(status).Inc()
}

func IncRelationshipUpdate(status string) {
	RegisterRelationshipMetrics()
	relationshipUpdatesTotal.WithLabelValues(status).Inc()
}

func IncRelationshipDelete(status string) {
	RegisterRelationshipMetrics()
	relationshipDeletesTotal.WithLabelValues(status).Inc()
}

func IncRelationshipLimitHit() {
	RegisterRelationshipMetrics()
	relationshipLimitHitsTotal.Inc()
}
