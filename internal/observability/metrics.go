// Package observability exposes Prometheus instrumentation for the
// simulation and API layers.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors the service updates at runtime.
type Metrics struct {
	registry *prometheus.Registry

	SimulationsTotal      *prometheus.CounterVec
	SimulationDuration    *prometheus.HistogramVec
	LiquidationsTotal     *prometheus.CounterVec
	ValidationErrorsTotal prometheus.Counter
	BatchesTotal          prometheus.Counter
	BatchMembersTotal     prometheus.Counter
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		SimulationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backtest_simulations_total",
			Help: "Completed simulations by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		SimulationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "backtest_simulation_duration_seconds",
			Help:    "Wall-clock duration of one simulation run.",
			Buckets: prometheus.DefBuckets,
		}, []string{"strategy"}),
		LiquidationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "backtest_liquidations_total",
			Help: "Simulations that ended in liquidation, by strategy.",
		}, []string{"strategy"}),
		ValidationErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "backtest_validation_errors_total",
			Help: "Requests rejected before simulation.",
		}),
		BatchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "backtest_batches_total",
			Help: "Completed batch runs.",
		}),
		BatchMembersTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "backtest_batch_members_total",
			Help: "Strategy members simulated inside batch runs.",
		}),
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
