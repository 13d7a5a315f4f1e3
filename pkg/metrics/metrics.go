package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	OrdersAccepted prometheus.Counter
	OrdersRejected *prometheus.CounterVec

	TelegramSends        *prometheus.CounterVec
	TelegramSendDuration *prometheus.HistogramVec

	RateLimited prometheus.Counter
}

// NewCollector registers all collectors on reg. Pass
// prometheus.DefaultRegisterer in main and a fresh registry in tests.
func NewCollector(serviceName string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		OrdersAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "orders",
			Name:      "accepted_total",
			Help:      "Orders validated and successfully forwarded to Telegram.",
		}),

		OrdersRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "orders",
			Name:      "rejected_total",
			Help:      "Orders rejected by validation, by reason.",
		}, []string{"reason"}),

		TelegramSends: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "telegram",
			Name:      "sends_total",
			Help:      "Outbound sendMessage calls by kind (primary/confirmation) and outcome.",
		}, []string{"kind", "outcome"}),

		TelegramSendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "telegram",
			Name:      "send_duration_seconds",
			Help:      "Outbound sendMessage call latency distribution.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"kind"}),

		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-IP rate limiter. Alert on sustained growth.",
		}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
