package metrics

import (
	"context"
	"errors"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// profile and session ids in collaborator paths
var idPattern = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// RecordExternalAPICall records one call to the generator or profile store.
// statusCode is 0 when no response arrived.
func (m *Metrics) RecordExternalAPICall(endpoint, method string, statusCode int, duration time.Duration, err error) {
	m.safeExecute("RecordExternalAPICall", func() {
		endpoint = collaboratorPath(endpoint)
		status := strconv.Itoa(statusCode)

		m.ExternalAPIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
		m.ExternalAPIRequestDuration.WithLabelValues(endpoint, status).Observe(duration.Seconds())

		if err != nil || statusCode >= 400 {
			m.ExternalAPIErrors.WithLabelValues(endpoint, failureKind(statusCode, err)).Inc()
		}
	})
}

// collaboratorPath drops scheme, host and query and templates ids, so
// http://gen:8000/profiles/<uuid>/data becomes /profiles/{id}/data
func collaboratorPath(endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil && u.Path != "" {
		endpoint = u.Path
	}
	return idPattern.ReplaceAllString(endpoint, "{id}")
}

// failureKind labels a failed collaborator call
func failureKind(statusCode int, err error) string {
	switch statusCode {
	case 400, 422:
		return "rejected_spec"
	case 401, 403:
		return "denied"
	case 404:
		return "not_found"
	case 408, 504:
		return "timeout"
	case 413:
		return "upload_too_large"
	case 429:
		return "throttled"
	}
	switch {
	case statusCode >= 500:
		return "collaborator_error"
	case statusCode >= 400:
		return "client_error"
	}

	if err == nil {
		return "unknown"
	}
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "connection_refused"
	case strings.Contains(msg, "no such host"):
		return "dns_error"
	case strings.Contains(msg, "EOF"), strings.Contains(msg, "connection reset"):
		return "connection_reset"
	}
	return "network_error"
}
