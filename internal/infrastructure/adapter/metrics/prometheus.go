package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
)

const namespace = "lockledger"

// PrometheusRecorder implements core.Metrics with Prometheus collectors
type PrometheusRecorder struct {
	gatherer   prometheus.Gatherer
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	locked     prometheus.Counter
	released   prometheus.Counter
	escrow     prometheus.Gauge
}

// NewPrometheusRecorder registers the ledger collectors with registry
func NewPrometheusRecorder(registry *prometheus.Registry) *PrometheusRecorder {
	factory := promauto.With(registry)

	return &PrometheusRecorder{
		gatherer: registry,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Number of ledger operations by outcome",
		}, []string{"operation", "outcome"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Ledger operation latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		locked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "escrow",
			Name:      "locked_total",
			Help:      "Token units moved into escrow",
		}),
		released: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "escrow",
			Name:      "released_total",
			Help:      "Token units released from escrow",
		}),
		escrow: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "escrow",
			Name:      "balance",
			Help:      "Current escrow balance",
		}),
	}
}

// ObserveOperation records the outcome and latency of a ledger operation
func (r *PrometheusRecorder) ObserveOperation(operation, outcome string, elapsed core.Duration) {
	r.operations.WithLabelValues(operation, outcome).Inc()
	r.latency.WithLabelValues(operation).Observe(elapsed.Std().Seconds())
}

// AddLocked adds to the total amount moved into escrow
func (r *PrometheusRecorder) AddLocked(amount float64) {
	r.locked.Add(amount)
}

// AddReleased adds to the total amount released from escrow
func (r *PrometheusRecorder) AddReleased(amount float64) {
	r.released.Add(amount)
}

// SetEscrowBalance publishes the current escrow balance
func (r *PrometheusRecorder) SetEscrowBalance(amount float64) {
	r.escrow.Set(amount)
}

// Handler exposes the registry in the Prometheus text format
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// NoopRecorder discards every measurement
type NoopRecorder struct{}

// NewNoopRecorder creates a recorder for disabled metrics and tests
func NewNoopRecorder() core.Metrics {
	return NoopRecorder{}
}

func (NoopRecorder) ObserveOperation(string, string, core.Duration) {}
func (NoopRecorder) AddLocked(float64)                              {}
func (NoopRecorder) AddReleased(float64)                            {}
func (NoopRecorder) SetEscrowBalance(float64)                       {}
