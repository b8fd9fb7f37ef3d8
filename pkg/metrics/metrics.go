package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidxu_orders_settled_total",
		Help: "Orders that reached a terminal status.",
	}, []string{"status"})

	JobSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidxu_job_submissions_total",
		Help: "Job submissions to the inference provider by result.",
	}, []string{"result"})

	PaymentsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidxu_payments_confirmed_total",
		Help: "Payment requests confirmed by the gateway.",
	})

	XuCredited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidxu_xu_credited_total",
		Help: "Total Xu credited to wallets.",
	})
)
