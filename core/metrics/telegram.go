package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		updatesReceivedTotal,
		rateLimitedTotal,
		handlerDurationMs,
	)
}

var (
	updatesReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegram_updates_received_total",
			Help:      "Incoming updates by kind (message, callback, other).",
		},
		[]string{"kind"},
	)

	rateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegram_rate_limited_total",
			Help:      "Updates dropped by the per-user rate limiter.",
		},
	)

	handlerDurationMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "telegram_handler_duration_ms",
			Help:      "Handler latency in milliseconds by handler and status.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"handler", "status"},
	)
)

func IncUpdate(kind string) {
	updatesReceivedTotal.WithLabelValues(norm(kind)).Inc()
}

func IncRateLimited() {
	rateLimitedTotal.Inc()
}

func ObserveHandler(handler, status string, ms int64) {
	handlerDurationMs.WithLabelValues(norm(handler), norm(status)).Observe(float64(ms))
}
