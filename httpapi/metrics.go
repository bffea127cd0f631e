package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks forecast and scenario activity for the /metrics endpoint.
type Metrics struct {
	ForecastSeconds prometheus.Histogram
	ForecastsTotal  *prometheus.CounterVec
	ScenarioOps     *prometheus.CounterVec
}

// NewMetrics creates and registers the engine metrics on the default
// registry.
func NewMetrics() *Metrics {
	return &Metrics{
		ForecastSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "blizzard_forecast_seconds",
			Help:    "Time spent fitting and forecasting",
			Buckets: prometheus.DefBuckets,
		}),
		ForecastsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "blizzard_forecasts_total",
			Help: "Total forecast requests by outcome",
		}, []string{"status"}),
		ScenarioOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "blizzard_scenario_operations_total",
			Help: "Total scenario store operations by kind",
		}, []string{"operation"}),
	}
}

// RecordForecast observes one forecast call.
func (m *Metrics) RecordForecast(seconds float64, ok bool) {
	if m == nil {
		return
	}
	m.ForecastSeconds.Observe(seconds)
	status := "ok"
	if !ok {
		status = "error"
	}
	m.ForecastsTotal.WithLabelValues(status).Inc()
}

// RecordScenarioOp counts one scenario store operation.
func (m *Metrics) RecordScenarioOp(operation string) {
	if m == nil {
		return
	}
	m.ScenarioOps.WithLabelValues(operation).Inc()
}
