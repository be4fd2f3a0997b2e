package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OrderMetrics bundles every counter the reconciliation path records.
type OrderMetrics struct {
	OrdersCreatedTotal          prometheus.CounterVec
	OrdersCompletedTotal        prometheus.CounterVec
	OrdersCancelledTotal        prometheus.CounterVec
	PaymentsReconciledTotal     prometheus.CounterVec
	DuplicateNotificationsTotal prometheus.CounterVec
	WebhooksRejectedTotal       prometheus.CounterVec
	AmountMismatchTotal         prometheus.CounterVec
	ReconcileDuration           prometheus.HistogramVec
}

func NewOrderMetrics() *OrderMetrics {
	return &OrderMetrics{
		OrdersCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Orders created, labelled by the path that created them",
			},
			[]string{"source"},
		),
		OrdersCompletedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_completed_total",
				Help: "Orders that reached paid state",
			},
			[]string{"provider"},
		),
		OrdersCancelledTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_cancelled_total",
				Help: "Orders cancelled, labelled by reason",
			},
			[]string{"reason"},
		),
		PaymentsReconciledTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payments_reconciled_total",
				Help: "Reconciliation events applied to an order",
			},
			[]string{"provider", "outcome", "source"},
		),
		DuplicateNotificationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "duplicate_notifications_total",
				Help: "Redelivered or racing notifications absorbed as no-ops",
			},
			[]string{"provider"},
		),
		WebhooksRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhooks_rejected_total",
				Help: "Inbound webhooks that failed signature verification",
			},
			[]string{"provider"},
		),
		AmountMismatchTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_amount_mismatch_total",
				Help: "Notifications whose amount differs from the order total",
			},
			[]string{"provider"},
		),
		ReconcileDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reconcile_duration_seconds",
				Help:    "Time spent applying one reconciliation event",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}
}
