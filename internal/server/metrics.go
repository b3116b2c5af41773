package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	Requests      *prometheus.CounterVec
	PaidCalls     *prometheus.CounterVec
	DealDuration  prometheus.Histogram
	ProductsFound prometheus.Histogram
}

// NewMetrics registers the collectors on reg and returns them. Pass
// prometheus.DefaultRegisterer in production.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dealfinder_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		PaidCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dealfinder_paid_api_calls_total",
			Help: "Billable external API calls, by kind (search, extract, llm).",
		}, []string{"kind"}),
		DealDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealfinder_deal_request_duration_seconds",
			Help:    "End-to-end duration of a deal search request.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		ProductsFound: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealfinder_products_found",
			Help:    "Products returned per deal search.",
			Buckets: prometheus.LinearBuckets(0, 2, 9),
		}),
	}
}
