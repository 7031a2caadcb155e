// Package metrics exposes Prometheus collectors for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes recorded for edge toggles and downloads.
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeEmpty    = "empty"
)

var (
	// HTTPRequestDuration tracks request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	// EdgeTogglesTotal counts favorite and shopping cart changes.
	EdgeTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_edge_toggles_total",
			Help: "Total number of favorite and shopping cart toggles",
		},
		[]string{"kind", "action", "outcome"},
	)

	// ShoppingListDownloadsTotal counts shopping list downloads.
	ShoppingListDownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Total number of shopping list downloads",
		},
		[]string{"outcome"},
	)
)

func RecordRequest(route, method string, status int, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
}

// RecordEdgeToggle records one add or remove of a favorite/cart edge.
func RecordEdgeToggle(kind, action, outcome string) {
	EdgeTogglesTotal.WithLabelValues(kind, action, outcome).Inc()
}

func RecordShoppingListDownload(outcome string) {
	ShoppingListDownloadsTotal.WithLabelValues(outcome).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
