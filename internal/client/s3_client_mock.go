package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// MockS3Client implements ExportArchive in memory for tests
type MockS3Client struct {
	Bucket string

	mu      sync.Mutex
	objects map[string][]byte

	// Optional function overrides for custom test behavior
	UploadExportFunc    func(ctx context.Context, key string, payload io.Reader, contentType string) error
	PresignDownloadFunc func(ctx context.Context, key, filename string) (string, error)
	DeleteExportFunc    func(ctx context.Context, key string) error
}

// NewMockS3Client creates a new mock archive
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket:  "test-bucket",
		objects: map[string][]byte{},
	}
}

func (m *MockS3Client) GenerateExportKey(sessionID, filename string, at time.Time) string {
	return exportKey(sessionID, filename, at)
}

func (m *MockS3Client) UploadExport(ctx context.Context, key string, payload io.Reader, contentType string) error {
	if m.UploadExportFunc != nil {
		return m.UploadExportFunc(ctx, key, payload, contentType)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, payload); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf.Bytes()
	return nil
}

func (m *MockS3Client) PresignDownload(ctx context.Context, key, filename string) (string, error) {
	if m.PresignDownloadFunc != nil {
		return m.PresignDownloadFunc(ctx, key, filename)
	}
	return fmt.Sprintf("https://%s.local/%s?X-Amz-Signature=mock", m.Bucket, key), nil
}

func (m *MockS3Client) DeleteExport(ctx context.Context, key string) error {
	if m.DeleteExportFunc != nil {
		return m.DeleteExportFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Object returns a stored payload
func (m *MockS3Client) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	return b, ok
}

var (
	_ ExportArchive = (*MockS3Client)(nil)
	_ ExportArchive = (*S3Client)(nil)
)
