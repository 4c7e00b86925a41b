package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric result labels.
const (
	resultOK    = "ok"
	resultMiss  = "miss"
	resultError = "error"
)

// metrics holds the collectors of one engine. They are registered with the
// engine's Registerer; a nil Registerer leaves them unregistered.
type metrics struct {
	// operations counts operations by op and result
	operations *prometheus.CounterVec

	// duration tracks operation latency
	duration *prometheus.HistogramVec

	// vertices reports the current graph size
	vertices prometheus.GaugeFunc
}

func newMetrics(reg prometheus.Registerer, vertexCount func() float64) *metrics {
	f := promauto.With(reg)
	return &metrics{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "seqraph_engine_operations_total",
			Help: "Total engine operations by op and result",
		}, []string{"op", "result"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seqraph_engine_operation_seconds",
			Help:    "Engine operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		}, []string{"op"}),
		vertices: f.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "seqraph_graph_vertices",
			Help: "Number of vertices in the engine's graph",
		}, vertexCount),
	}
}
