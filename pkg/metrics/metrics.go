package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// WebhookNotifications counts call-completion notifications by outcome
	// (stored, skipped, duplicate, invalid, failed).
	WebhookNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_webhook_notifications_total",
			Help: "Voice provider call-completion notifications by outcome",
		},
		[]string{"outcome"},
	)

	// SMSMessages counts outbound SMS by template and result.
	SMSMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_sms_messages_total",
			Help: "Outbound SMS messages by template and result",
		},
		[]string{"template", "result"},
	)

	// Bookings counts booking attempts by flow (direct, sms) and result.
	Bookings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_bookings_total",
			Help: "Screening booking attempts by flow and result",
		},
		[]string{"flow", "result"},
	)

	// OutboundCalls counts voice call placements by provider and result.
	OutboundCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screening_outbound_calls_total",
			Help: "Outbound voice call placements by provider and result",
		},
		[]string{"provider", "result"},
	)
)

// Result maps an error to the "ok"/"error" label used by the domain counters.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Middleware records request count, latency and in-flight gauge.
// The matched route template is used as label to keep cardinality low.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		httpRequestsTotal.With(labels).Inc()
		httpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry for scraping.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
