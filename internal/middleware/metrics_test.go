package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"synthdata-wizard-api/internal/metrics"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

func setupMetricsRouter(m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics(m))
	return router
}

// Property: every request outside the skip list increments the counter of
// its route pattern and status class by exactly one
func TestProperty_HTTPRequestMetricsIncrement(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("one request, one increment", prop.ForAll(
		func(statusCode int) bool {
			m := newTestMetrics()
			router := setupMetricsRouter(m)
			router.GET("/api/wizard/sessions/:sessionId", func(c *gin.Context) {
				c.Status(statusCode)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/wizard/sessions/abc", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			counter := m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/wizard/sessions/:sessionId", statusClass(statusCode))
			return w.Code == statusCode && testutil.ToFloat64(counter) == 1
		},
		gen.IntRange(200, 599),
	))

	properties.TestingRun(t)
}

func statusClass(code int) string {
	switch {
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	}
	return "5xx"
}

func TestMetricsMiddleware_RecordsDuration(t *testing.T) {
	m := newTestMetrics()
	router := setupMetricsRouter(m)
	router.POST("/api/wizard/sessions/:sessionId/export", func(c *gin.Context) {
		time.Sleep(5 * time.Millisecond)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/wizard/sessions/s1/export", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration, "synthdata_wizard_http_request_duration_seconds"))
}

func TestMetricsMiddleware_ExcludedEndpoints(t *testing.T) {
	m := newTestMetrics()
	router := setupMetricsRouter(m)

	excludedPaths := []string{
		"/metrics",
		"/health",
		"/ready",
		"/api/wizard/metrics",
		"/api/wizard/health",
		"/api/wizard/ready",
	}
	for _, path := range excludedPaths {
		router.GET(path, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}

	for _, path := range excludedPaths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
	assert.Equal(t, 0, testutil.CollectAndCount(m.HTTPRequestsTotal))
}

func TestMetricsMiddleware_ErrorStatusCodes(t *testing.T) {
	m := newTestMetrics()
	router := setupMetricsRouter(m)
	router.GET("/api/wizard/sessions/:sessionId", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})
	router.POST("/api/wizard/sessions/:sessionId/export", func(c *gin.Context) {
		c.Status(http.StatusBadGateway)
	})

	testCases := []struct {
		name     string
		method   string
		path     string
		endpoint string
		class    string
	}{
		{"404 Not Found", http.MethodGet, "/api/wizard/sessions/x", "/api/wizard/sessions/:sessionId", "4xx"},
		{"502 Bad Gateway", http.MethodPost, "/api/wizard/sessions/x/export", "/api/wizard/sessions/:sessionId/export", "5xx"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			router.ServeHTTP(httptest.NewRecorder(), req)

			counter := m.HTTPRequestsTotal.WithLabelValues(tc.method, tc.endpoint, tc.class)
			assert.Equal(t, float64(1), testutil.ToFloat64(counter))
		})
	}
}
