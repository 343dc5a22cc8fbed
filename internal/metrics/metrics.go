package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	logins      *prometheus.CounterVec
	otpRequests *prometheus.CounterVec
	bookings    *prometheus.CounterVec
}

// New registers collectors on a private registry so tests can build as
// many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "restaurant_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "restaurant_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "restaurant_logins_total",
			Help: "Login attempts by method (password, otp, admin) and outcome.",
		}, []string{"method", "outcome"}),
		otpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "restaurant_otp_requests_total",
			Help: "OTP requests by outcome.",
		}, []string{"outcome"}),
		bookings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "restaurant_bookings_total",
			Help: "Created orders and bookings by kind.",
		}, []string{"kind"}),
	}
}

// Recording methods are no-ops on a nil *Metrics.
func (m *Metrics) Login(method string, ok bool) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(method, outcome(ok)).Inc()
}

func (m *Metrics) OTPRequest(outcome string) {
	if m == nil {
		return
	}
	m.otpRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Booking(kind string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(kind).Inc()
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// Middleware records one sample per request, labelled by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
