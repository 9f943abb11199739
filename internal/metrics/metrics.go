package metrics

import (
	"strconv"
	"sync"
	"time"

	custom_error "assetdesk/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "assetdesk_http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetdesk_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assetdesk_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	workflowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetdesk_workflows_total",
			Help: "Asset and assignment workflows by outcome.",
		},
		[]string{"workflow", "outcome"},
	)

	registerOnce sync.Once
)

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpInFlight, httpRequestsTotal, httpRequestDuration, workflowsTotal)
	})
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Instrument records request count, latency and in-flight requests per route.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpInFlight.Inc()
		start := time.Now()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpInFlight.Dec()
	}
}

// ObserveWorkflow counts one run of workflow, labelled by how it ended.
func ObserveWorkflow(workflow string, err error) {
	workflowsTotal.WithLabelValues(workflow, Outcome(err)).Inc()
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case custom_error.IsNotFound(err):
		return "not_found"
	case custom_error.IsTransition(err), custom_error.IsUniqueViolation(err), custom_error.IsForeignKeyViolation(err):
		return "conflict"
	case custom_error.IsValidation(err):
		return "invalid"
	default:
		return "error"
	}
}
