// Package metrics registers the dashboard's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	StoreDataBatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_store_data_batches_total",
			Help: "Store data batches by outcome",
		},
		[]string{"outcome"},
	)

	DiscardedResponses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_discarded_responses_total",
			Help: "Batch responses dropped because a newer batch was issued",
		},
	)

	RejectedProducts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_rejected_products_total",
			Help: "Products rejected at ingestion for a non-positive max capacity",
		},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_backend_request_duration_seconds",
			Help:    "Duration of inventory backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "Duration of dashboard API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

const (
	OutcomeLoaded    = "loaded"
	OutcomeFailed    = "failed"
	OutcomeDiscarded = "discarded"
	OutcomeCancelled = "cancelled"
)

func init() {
	prometheus.MustRegister(StoreDataBatches)
	prometheus.MustRegister(DiscardedResponses)
	prometheus.MustRegister(RejectedProducts)
	prometheus.MustRegister(BackendRequestDuration)
	prometheus.MustRegister(HTTPRequestDuration)
}
