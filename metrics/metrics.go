// Package metrics provides the Prometheus collectors of the dashboard server:
//   - http_request_total, http_request_duration_seconds and http_request_in_flight
//     for every routed request
//   - dashboard_chart_renders_total per chart name
//   - dataset_records and dataset_reloads_total for the served table
//
// All collectors are registered with the default registry on package init.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	ChartRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_chart_renders_total",
			Help: "Charts rendered per request, by chart name",
		},
		[]string{"chart"},
	)

	DatasetRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_records",
			Help: "Number of records in the served table",
		},
	)

	DatasetReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_reloads_total",
			Help: "Dataset reload attempts by result (loaded, unchanged, failed)",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(ChartRendersTotal)
	prometheus.MustRegister(DatasetRecords)
	prometheus.MustRegister(DatasetReloadsTotal)
}
