// Package observability holds the Prometheus collectors shared by the HTTP layer.
package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts finished requests by route template, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_http_requests_total",
		Help: "Total HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	// HTTPLatency records request latency by route template and method.
	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "postboard_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// LoginAttempts counts token requests by outcome (ok, invalid, inactive, error).
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_login_attempts_total",
		Help: "Total login attempts by outcome",
	}, []string{"outcome"})

	// Evaluations counts evaluation writes by kind (like, dislike, removed).
	Evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postboard_evaluations_total",
		Help: "Total evaluation changes by kind",
	}, []string{"kind"})
)

// GinMetrics records HTTPRequests and HTTPLatency for every request.
func GinMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPLatency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
