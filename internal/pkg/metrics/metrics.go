// Package metrics exposes the Prometheus instrumentation for the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Domain counters
	EnrollmentsTotal       *prometheus.CounterVec
	PaymentsTotal          *prometheus.CounterVec
	CertificationsIssued   prometheus.Counter
	CertificationsExpired  prometheus.Counter
	AuthorizationDenials   *prometheus.CounterVec
	GatewayRequestDuration *prometheus.HistogramVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formatech_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "formatech_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		EnrollmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formatech_enrollments_total",
				Help: "Total number of enrollments by status transition",
			},
			[]string{"status"},
		),
		PaymentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formatech_payments_total",
				Help: "Total number of payments by final status",
			},
			[]string{"status"},
		),
		CertificationsIssued: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "formatech_certifications_issued_total",
				Help: "Total number of certifications issued",
			},
		),
		CertificationsExpired: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "formatech_certifications_expired_total",
				Help: "Total number of certifications marked expired by the sweeper",
			},
		),
		AuthorizationDenials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formatech_authorization_denials_total",
				Help: "Total number of denied mutation attempts",
			},
			[]string{"entity", "action"},
		),
		GatewayRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "formatech_gateway_request_duration_seconds",
				Help:    "Payment gateway request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.EnrollmentsTotal,
		m.PaymentsTotal,
		m.CertificationsIssued,
		m.CertificationsExpired,
		m.AuthorizationDenials,
		m.GatewayRequestDuration,
	)

	return m
}

// GinMiddleware instruments requests with the HTTP collectors. The route
// template (not the raw URL) is used as the path label to bound cardinality.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
