package metrics

import (
	"strconv"
	"strings"
	"time"
)

// probe paths served at the root and under the API base path
var unmeteredPaths = map[string]bool{
	"/metrics": true,
	"/health":  true,
	"/ready":   true,
}

// RecordHTTPRequest records one wizard API request. route is the gin route
// template so session and field ids do not explode the label set.
func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.safeExecute("RecordHTTPRequest", func() {
		m.HTTPRequestsTotal.WithLabelValues(method, route, statusClass(statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	})
}

func statusClass(code int) string {
	if code < 200 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}

// ShouldSkipEndpoint reports whether path is a probe or scrape endpoint
func ShouldSkipEndpoint(path string) bool {
	path = strings.TrimSuffix(path, "/")
	if unmeteredPaths[path] {
		return true
	}
	return unmeteredPaths[strings.TrimPrefix(path, "/api/wizard")]
}
