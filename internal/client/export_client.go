package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/metrics"
)

// ExportClient calls the generator service
type ExportClient interface {
	// Export posts a compiled spec and returns the generated file. Failures
	// are NETWORK_ERROR and never retried.
	Export(ctx context.Context, spec *domain.ExportSpec) (*domain.ExportResult, error)
}

type exportClient struct {
	baseClient
}

// NewExportClient creates a generator API client
func NewExportClient(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) ExportClient {
	return &exportClient{baseClient: newBaseClient(baseURL, timeout, logger, m)}
}

func (c *exportClient) Export(ctx context.Context, spec *domain.ExportSpec) (*domain.ExportResult, error) {
	raw, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export spec: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/export"), bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, payload, err := c.do(req)
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.logger.Info("Export generated",
		zap.String("format", spec.Format),
		zap.Int("row_count", spec.RowCount),
		zap.Int("bytes", len(payload)),
	)

	return &domain.ExportResult{
		ContentType: contentType,
		Payload:     payload,
	}, nil
}
