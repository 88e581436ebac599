// internal/service/order/application/metrics.go
package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Number of orders successfully placed.",
	})
	ordersFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Number of checkout attempts that failed.",
	})
	promoRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promo_rejections_total",
		Help: "Number of promo codes rejected at submit-time recheck.",
	})
)
