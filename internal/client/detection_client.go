package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/metrics"
)

// DetectionClient calls the distribution detection and curve fitting endpoints
type DetectionClient interface {
	DetectColumns(ctx context.Context, filename string, file io.Reader) (*domain.ColumnList, error)
	DetectColumn(ctx context.Context, filename string, file io.Reader, column string) (*domain.ColumnDetection, error)
	FitCurve(ctx context.Context, req domain.CurveFitRequest) (*domain.CurveFit, error)
}

type detectionClient struct {
	baseClient
}

// NewDetectionClient creates a detection API client
func NewDetectionClient(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) DetectionClient {
	return &detectionClient{baseClient: newBaseClient(baseURL, timeout, logger, m)}
}

func (c *detectionClient) DetectColumns(ctx context.Context, filename string, file io.Reader) (*domain.ColumnList, error) {
	var result domain.ColumnList
	if err := c.postMultipart(ctx, "/detect-distribution", filename, file, nil, &result); err != nil {
		return nil, err
	}
	if result.Columns == nil {
		result.Columns = []string{}
	}
	return &result, nil
}

func (c *detectionClient) DetectColumn(ctx context.Context, filename string, file io.Reader, column string) (*domain.ColumnDetection, error) {
	var result domain.ColumnDetection
	fields := map[string]string{"column": column}
	if err := c.postMultipart(ctx, "/detect-distribution/column", filename, file, fields, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *detectionClient) FitCurve(ctx context.Context, req domain.CurveFitRequest) (*domain.CurveFit, error) {
	var result domain.CurveFit
	if err := c.doJSON(ctx, http.MethodPost, "/api/fit-distribution", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *detectionClient) postMultipart(ctx context.Context, path, filename string, file io.Reader, fields map[string]string, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	_, body, err := c.do(req)
	if err != nil {
		return err
	}
	return decodeEnvelope(body, out)
}
