// Package observability wires tracing and metrics. Counters live on the
// default prometheus registry, which the /metrics endpoint serves.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "servomart_http_requests_total",
		Help: "HTTP requests completed, by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "servomart_http_request_duration_seconds",
		Help:    "HTTP request latency, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	CheckoutSessionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "servomart_checkout_sessions_total",
		Help: "Stripe checkout sessions opened.",
	})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "servomart_orders_created_total",
		Help: "Orders recorded from completed checkouts.",
	})

	RefundsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "servomart_refunds_total",
		Help: "Refunds issued to customers.",
	})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "servomart_webhook_events_total",
		Help: "Stripe webhook events received, by type.",
	}, []string{"type"})

	DBQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "servomart_db_query_duration_seconds",
		Help:    "Database query latency.",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveDBQuery records one query's latency; call it deferred with the
// method's start time.
func ObserveDBQuery(start time.Time) {
	DBQueryDuration.Observe(time.Since(start).Seconds())
}
