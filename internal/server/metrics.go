package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	methodLabel = "method"
	routeLabel  = "route"
	statusLabel = "status"
)

// Metrics holds the API collectors. Each Metrics has its own registry so
// several servers can live in one process.
type Metrics struct {
	Registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RateLimited     prometheus.Counter
	ActiveStreams   prometheus.Gauge
	Snapshots       prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.Requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leettrack",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Number of API requests by route and status",
	}, []string{methodLabel, routeLabel, statusLabel})

	m.RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "leettrack",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "API request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{methodLabel, routeLabel})

	m.RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "leettrack",
		Subsystem: "api",
		Name:      "rate_limited_total",
		Help:      "Number of requests rejected by the rate limiter",
	})

	m.ActiveStreams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "leettrack",
		Subsystem: "api",
		Name:      "active_streams",
		Help:      "Number of open problem snapshot streams",
	})

	m.Snapshots = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "leettrack",
		Subsystem: "api",
		Name:      "snapshots_sent_total",
		Help:      "Number of problem snapshots pushed to streams",
	})

	m.Registry.MustRegister(
		m.Requests,
		m.RequestDuration,
		m.RateLimited,
		m.ActiveStreams,
		m.Snapshots,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records one observation per request, labelled with the
// matched route template rather than the raw path.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
