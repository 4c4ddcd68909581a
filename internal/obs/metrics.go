package obs

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Ledger operations by kind and outcome.",
		},
		[]string{"op", "outcome"},
	)

	operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Ledger operation latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	zakatCollected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zakat_collected_minor_total",
			Help: "Total zakat collected in minor units, per currency.",
		},
		[]string{"currency"},
	)
)

// Init registers the ledger metrics with the default registry.
func Init() {
	prometheus.MustRegister(operationsTotal, operationDuration, zakatCollected)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveOperation records one completed ledger operation.
func ObserveOperation(op, outcome string, started time.Time) {
	operationsTotal.WithLabelValues(op, outcome).Inc()
	operationDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// AddZakatCollected accumulates collected zakat for a currency.
func AddZakatCollected(currency string, minor int64) {
	zakatCollected.WithLabelValues(currency).Add(float64(minor))
}
