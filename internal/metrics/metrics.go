package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "eduvault",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eduvault",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "eduvault",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eduvault",
			Subsystem: "profile",
			Name:      "registrations_total",
			Help:      "Registration attempts by outcome.",
		},
		[]string{"result"},
	)

	walletLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eduvault",
			Subsystem: "profile",
			Name:      "wallet_lookups_total",
			Help:      "Wallet lookups by outcome.",
		},
		[]string{"result"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eduvault",
			Subsystem: "notify",
			Name:      "welcome_emails_total",
			Help:      "Welcome email attempts by outcome.",
		},
		[]string{"result"},
	)

	uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eduvault",
			Subsystem: "storage",
			Name:      "uploads_total",
			Help:      "Upload relay requests by outcome.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		registrations,
		walletLookups,
		notifications,
		uploads,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordRegistration counts a registration outcome (created, conflict, invalid, error).
func RecordRegistration(result string) { registrations.WithLabelValues(result).Inc() }

// RecordWalletLookup counts a wallet lookup outcome (found, missing, invalid, error).
func RecordWalletLookup(result string) { walletLookups.WithLabelValues(result).Inc() }

// RecordNotification counts a welcome email outcome (sent, failed).
func RecordNotification(sent bool) {
	if sent {
		notifications.WithLabelValues("sent").Inc()
		return
	}
	notifications.WithLabelValues("failed").Inc()
}

// RecordUpload counts an upload outcome (ok, invalid, error).
func RecordUpload(result string) { uploads.WithLabelValues(result).Inc() }
