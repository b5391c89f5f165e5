// Package metrics holds the Prometheus collectors shared by the API and the ledger.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "expense_tracker"

var (
	recordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "record_total",
			Help:      "Expenses submitted to the ledger, by outcome.",
		},
		[]string{"result"},
	)

	lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "lookup_total",
			Help:      "Lookups by date, by outcome.",
		},
		[]string{"result"},
	)

	histogramResponseTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_time_seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"method", "route", "status"},
	)
)

// Ledger outcomes.
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultError    = "error"
	ResultFound    = "found"
	ResultNotFound = "empty"
)

func ObserveRecord(result string) {
	recordedTotal.WithLabelValues(result).Inc()
}

func ObserveLookup(result string) {
	lookupsTotal.WithLabelValues(result).Inc()
}

func ObserveResponse(method, route string, status int, elapsed time.Duration) {
	histogramResponseTime.
		WithLabelValues(method, route, strconv.Itoa(status)).
		Observe(elapsed.Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
