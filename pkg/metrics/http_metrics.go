package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics records request counts, durations and status categories for a service
type HTTPMetrics struct {
	ServiceName string

	requestCounter      *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	statusOkCounter     *prometheus.CounterVec
	clientErrorCounter  *prometheus.CounterVec
	serverErrorCounter  *prometheus.CounterVec
	statusCategoryCount *prometheus.CounterVec
}

// NewHTTPMetrics creates the collectors and registers them with reg
func NewHTTPMetrics(serviceName string, reg prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(reg)

	return &HTTPMetrics{
		ServiceName: serviceName,
		requestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		statusOkCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_2xx_total",
				Help: "Total number of 2xx (success) responses",
			},
			[]string{"service"},
		),
		clientErrorCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_4xx_total",
				Help: "Total number of 4xx (client error) responses",
			},
			[]string{"service"},
		),
		serverErrorCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_5xx_total",
				Help: "Total number of 5xx (server error) responses",
			},
			[]string{"service"},
		),
		statusCategoryCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"service", "category", "method", "path"},
		),
	}
}

// statusCategory maps a status code to its 2xx/4xx/5xx bucket; other codes have none
func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return ""
	}
}

func (m *HTTPMetrics) incrementStatusCounter(status int, method, path string) {
	category := statusCategory(status)
	switch category {
	case "2xx":
		m.statusOkCounter.WithLabelValues(m.ServiceName).Inc()
	case "4xx":
		m.clientErrorCounter.WithLabelValues(m.ServiceName).Inc()
	case "5xx":
		m.serverErrorCounter.WithLabelValues(m.ServiceName).Inc()
	default:
		return
	}
	m.statusCategoryCount.WithLabelValues(m.ServiceName, category, method, path).Inc()
}

// Middleware creates an Echo middleware function that records HTTP request metrics.
// It must run inside the request logger so the status it reads is the final one.
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			method := c.Request().Method
			// Route template keeps label cardinality bounded
			path := c.Path()
			statusStr := strconv.Itoa(status)

			m.requestCounter.WithLabelValues(m.ServiceName, method, path, statusStr).Inc()
			m.incrementStatusCounter(status, method, path)
			m.requestDuration.WithLabelValues(m.ServiceName, method, path, statusStr).
				Observe(time.Since(start).Seconds())

			return nil
		}
	}
}

// Handler returns an HTTP handler exposing the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
