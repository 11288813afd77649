package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nutrilog"

var (
	// EntityMutations counts accepted store mutations by collection and operation.
	EntityMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entity_mutations_total",
			Help:      "Store mutations applied, by collection and operation.",
		},
		[]string{"collection", "op"},
	)

	// PersistenceWrites counts writes through the key-value boundary.
	PersistenceWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_writes_total",
			Help:      "Key-value writes, by key and result.",
		},
		[]string{"key", "result"},
	)

	// OracleTasks counts finished estimation tasks by kind and terminal state.
	OracleTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_tasks_total",
			Help:      "Estimation tasks reaching a terminal state.",
		},
		[]string{"kind", "state"},
	)

	OracleLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_request_seconds",
			Help:      "Time spent waiting for the estimation oracle.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"kind"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
