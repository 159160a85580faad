package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreLatency is the duration of store queries.
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dataaccess_store_latency",
			Help: "Duration of store queries",
		},
		[]string{"dal", "query", "database", "collection"},
	)

	// StoreTotalRequests is the total number of store requests.
	StoreTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_store_total_requests",
			Help: "Total number of store requests",
		},
		[]string{"dal", "query", "database", "collection"},
	)
)

// ObserveQuery counts a query and starts its latency timer. Call the returned function when the query finishes.
func ObserveQuery(dal, query, database, collection string) func() {
	StoreTotalRequests.WithLabelValues(dal, query, database, collection).Inc()
	t := prometheus.NewTimer(StoreLatency.WithLabelValues(dal, query, database, collection))
	return func() {
		t.ObserveDuration()
	}
}
