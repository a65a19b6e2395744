// Package metrics defines all custom Prometheus metrics for the storefront
// API. It is the single source of truth for metric names, labels, and help
// strings. Metrics are registered with the default registry at import time
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// OrdersCreatedTotal counts orders created at checkout completion.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	},
)

// PaymentsTotal counts payment submissions by outcome.
// Label:
//   - outcome: "success", "declined", "error", or "duplicate" (rejected by
//     the in-flight guard)
var PaymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Total number of payment submissions, by outcome.",
	},
	[]string{"outcome"},
)

// OrderAmount observes the charged total of each created order.
var OrderAmount = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_amount",
		Help:      "Distribution of order totals in currency units.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	},
)

// OrderStatusUpdatesTotal counts admin status transitions.
// Label:
//   - status: the newly assigned order status
var OrderStatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_updates_total",
		Help:      "Total number of admin order-status updates, by new status.",
	},
	[]string{"status"},
)

// ClientTokensIssuedTotal counts gateway client tokens handed to browsers.
var ClientTokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_tokens_issued_total",
		Help:      "Total number of payment-gateway client tokens issued.",
	},
)

// NotificationsTotal counts order-confirmation deliveries by result.
// Label:
//   - result: "sent" or "failed"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of order-confirmation notifications, by result.",
	},
	[]string{"result"},
)
