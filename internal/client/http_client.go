package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"synthdata-wizard-api/internal/metrics"
	"synthdata-wizard-api/internal/response"
)

// maxErrorBody bounds how much of a failed response is kept for the error detail
const maxErrorBody = 4 << 10

// baseClient holds what every collaborator client shares: the transport,
// logging and external call metrics
type baseClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
	// missingOn404 reports a 404 as NOT_FOUND instead of NETWORK_ERROR
	missingOn404 bool
}

func newBaseClient(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) baseClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

func (c *baseClient) url(path string) string {
	return c.baseURL + path
}

// do executes req and returns the body of a 2xx response. Transport failures
// and non-2xx answers become NETWORK_ERROR; with missingOn404 a 404 becomes
// NOT_FOUND.
func (c *baseClient) do(req *http.Request) (*http.Response, []byte, error) {
	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(req.URL.String(), req.Method, statusCode, duration, err)
	}

	if err != nil {
		c.logger.Error("Collaborator request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, nil, response.NewNetworkError("collaborator unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("Collaborator returned non-success status",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("duration", duration),
		)
		if c.missingOn404 && resp.StatusCode == http.StatusNotFound {
			return resp, nil, response.NewNotFoundError("resource not found", req.URL.Path)
		}
		return resp, nil, response.NewNetworkError(
			fmt.Sprintf("collaborator returned status %d", resp.StatusCode),
			fmt.Errorf("%s", strings.TrimSpace(string(body))),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, response.NewNetworkError("failed to read collaborator response", err)
	}

	c.logger.Debug("Collaborator request succeeded",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Duration("duration", duration),
	)
	return resp, body, nil
}

// doJSON sends in as a JSON body (skipped when nil) and decodes the answer
// into out (skipped when nil). A {"data": ...} envelope is unwrapped.
func (c *baseClient) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	_, respBody, err := c.do(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeEnvelope(respBody, out)
}

// decodeEnvelope decodes raw into out, accepting both a bare value and one
// wrapped as {"data": ...}
func decodeEnvelope(raw []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
			trimmed = envelope.Data
		}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return response.NewNetworkError("malformed collaborator response", err)
	}
	return nil
}
