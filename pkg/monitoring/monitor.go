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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// ExamSubmissions result: passed / failed / rejected
	ExamSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_exam_submissions_total",
			Help: "Exam submissions by outcome",
		},
		[]string{"exam", "result"},
	)

	ProgressSyncs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_progress_syncs_total",
			Help: "Remote progress writes by outcome",
		},
		[]string{"outcome"},
	)

	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_notifications_total",
			Help: "Exam result notifications by outcome",
		},
		[]string{"outcome"},
	)

	ActivityUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_activity_updates_total",
			Help: "Daily activity writes by metric",
		},
		[]string{"metric"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDuration, ExamSubmissions, ProgressSyncs, Notifications, ActivityUpdates)
	})
}

// Outcome 将错误转换为 success / failure 标签
func Outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
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
