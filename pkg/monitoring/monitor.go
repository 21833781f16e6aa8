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
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	TestSessionsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_test_sessions_started_total",
			Help: "Number of test sessions issued",
		},
		[]string{"subject"},
	)

	TestSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_test_submissions_total",
			Help: "Number of graded test submissions",
		},
		[]string{"subject"},
	)

	QuestionsServed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_questions_served_total",
			Help: "Number of questions handed out in test sessions",
		},
	)

	RecycledQuestions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_recycled_questions_total",
			Help: "Recently used questions handed out again because the fresh pool was too small",
		},
	)

	ScorePercentage = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_score_percentage",
			Help:    "Distribution of graded test percentages",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)
)

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			TestSessionsStarted,
			TestSubmissions,
			QuestionsServed,
			RecycledQuestions,
			ScorePercentage,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
