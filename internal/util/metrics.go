package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_queries_total",
		Help: "Total number of catalog list queries",
	}, []string{"collection"})

	CatalogQueryResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_query_result_size",
		Help:    "Number of records returned by catalog list queries",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	}, []string{"collection"})

	CartCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_commands_total",
		Help: "Total number of cart commands applied",
	}, []string{"command"})

	CartItemsAddedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_items_added_total",
		Help: "Total number of items added to carts",
	}, []string{"kind"})

	CartItemAddsByID = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_item_adds_by_id_total",
		Help: "Add-to-cart counts per catalog item",
	}, []string{"item_id", "kind"})

	EventsObservedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_events_observed_total",
		Help: "Total number of analytics events consumed, by type",
	}, []string{"event_type"})

	CheckoutsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_started_total",
		Help: "Total number of checkout stub invocations",
	})

	NewsletterSubscriptionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsletter_subscriptions_total",
		Help: "Total number of newsletter subscriptions",
	})

	NewsletterRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsletter_rejected_total",
		Help: "Total number of rejected newsletter subscribe requests",
	}, []string{"reason"})

	SessionLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_session_loads_total",
		Help: "Total number of cart session loads",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
