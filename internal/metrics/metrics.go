// Package metrics exposes Prometheus collectors for the reconciliation paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersSynced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liberia_orders_synced_total",
		Help: "Orders reconciled into the local store, by source.",
	}, []string{"source"})

	OrderSyncFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liberia_order_sync_failures_total",
		Help: "Orders that failed to reconcile, by source.",
	}, []string{"source"})

	OrdersDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liberia_orders_deleted_total",
		Help: "Reservas removed because the upstream order was deleted or trashed.",
	}, []string{"source"})

	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liberia_webhook_deliveries_total",
		Help: "Webhook deliveries by outcome.",
	}, []string{"outcome"})

	SignatureMismatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liberia_webhook_signature_mismatches_total",
		Help: "Webhook deliveries whose signature did not verify.",
	})

	PushBacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liberia_pushback_total",
		Help: "Local edits written back upstream, by result.",
	}, []string{"result"})

	PullSyncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liberia_pull_sync_runs_total",
		Help: "Pull sync runs by final state.",
	}, []string{"state"})

	PullSyncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "liberia_pull_sync_duration_seconds",
		Help:    "Wall time of a full pull sync.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liberia_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"method", "route", "status"})
)
