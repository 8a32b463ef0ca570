package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lionconnect_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lionconnect_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// MatchRequests counts match lifecycle operations by outcome.
	MatchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lionconnect_match_requests_total",
			Help: "Match request operations by result",
		},
		[]string{"result"},
	)

	SuggestionCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lionconnect_suggestion_cache_total",
			Help: "Suggestion cache lookups by result",
		},
		[]string{"result"},
	)
)

// Match request results
const (
	MatchCreated   = "created"
	MatchDuplicate = "duplicate"
	MatchAccepted  = "accepted"
	MatchRejected  = "rejected"
	MatchStale     = "already_processed"
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDuration, MatchRequests, SuggestionCache)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
