package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 統計服務的 Prometheus 指標
var (
	HitsReceivedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stats_hits_received_total",
			Help: "Total number of endpoint hits accepted for recording",
		},
	)

	HitsPersistedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stats_hits_persisted_total",
			Help: "Total number of endpoint hits written to storage",
		},
	)

	HitsFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stats_hits_failed_total",
			Help: "Total number of endpoint hits that failed to persist",
		},
	)

	StatsQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_queries_total",
			Help: "Total number of view-stats queries served",
		},
		[]string{"unique"},
	)
)
