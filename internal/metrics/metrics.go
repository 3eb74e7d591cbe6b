// Package metrics exposes the Prometheus instruments for the scrape and
// reporting pipelines.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RefreshTotal counts refresh runs by result.
	RefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ybs_refresh_total",
		Help: "Number of portal refresh runs, labelled by result.",
	}, []string{"result"})

	// RefreshDuration observes end-to-end refresh latency.
	RefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ybs_refresh_duration_seconds",
		Help:    "Duration of portal refresh runs.",
		Buckets: prometheus.DefBuckets,
	})

	// OrdersParsed tracks how many orders the last refresh yielded.
	OrdersParsed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ybs_orders_parsed",
		Help: "Orders parsed from the portal in the most recent refresh.",
	})

	// ReportsGenerated counts production range reports served.
	ReportsGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ybs_production_reports_total",
		Help: "Number of production reports generated.",
	})
)

// Register installs all instruments on the default registry. Call once at
// startup.
func Register() {
	prometheus.MustRegister(RefreshTotal, RefreshDuration, OrdersParsed, ReportsGenerated)
}
