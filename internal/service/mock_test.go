package service

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/wizard"
)

// MockProfileStore is a mock implementation of ProfileStore
type MockProfileStore struct {
	ListProfilesFunc    func(ctx context.Context) ([]domain.ProfileSummary, error)
	CreateProfileFunc   func(ctx context.Context, name string) (*domain.ProfileSummary, error)
	DeleteProfileFunc   func(ctx context.Context, profileID string) error
	LoadProfileDataFunc func(ctx context.Context, profileID string) (*domain.ProfileData, error)
	SaveProfileDataFunc func(ctx context.Context, profileID string, data domain.ProfileData) error
}

func (m *MockProfileStore) ListProfiles(ctx context.Context) ([]domain.ProfileSummary, error) {
	if m.ListProfilesFunc != nil {
		return m.ListProfilesFunc(ctx)
	}
	return []domain.ProfileSummary{}, nil
}

func (m *MockProfileStore) CreateProfile(ctx context.Context, name string) (*domain.ProfileSummary, error) {
	if m.CreateProfileFunc != nil {
		return m.CreateProfileFunc(ctx, name)
	}
	return &domain.ProfileSummary{ID: uuid.New().String(), Name: name}, nil
}

func (m *MockProfileStore) DeleteProfile(ctx context.Context, profileID string) error {
	if m.DeleteProfileFunc != nil {
		return m.DeleteProfileFunc(ctx, profileID)
	}
	return nil
}

func (m *MockProfileStore) LoadProfileData(ctx context.Context, profileID string) (*domain.ProfileData, error) {
	if m.LoadProfileDataFunc != nil {
		return m.LoadProfileDataFunc(ctx, profileID)
	}
	return &domain.ProfileData{}, nil
}

func (m *MockProfileStore) SaveProfileData(ctx context.Context, profileID string, data domain.ProfileData) error {
	if m.SaveProfileDataFunc != nil {
		return m.SaveProfileDataFunc(ctx, profileID, data)
	}
	return nil
}

// MockExportClient is a mock implementation of client.ExportClient
type MockExportClient struct {
	ExportFunc func(ctx context.Context, spec *domain.ExportSpec) (*domain.ExportResult, error)
}

func (m *MockExportClient) Export(ctx context.Context, spec *domain.ExportSpec) (*domain.ExportResult, error) {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, spec)
	}
	return &domain.ExportResult{ContentType: "application/octet-stream", Payload: []byte("a;b\r\n")}, nil
}

// MockDetectionClient is a mock implementation of client.DetectionClient
type MockDetectionClient struct {
	DetectColumnsFunc func(ctx context.Context, filename string, file io.Reader) (*domain.ColumnList, error)
	DetectColumnFunc  func(ctx context.Context, filename string, file io.Reader, column string) (*domain.ColumnDetection, error)
	FitCurveFunc      func(ctx context.Context, req domain.CurveFitRequest) (*domain.CurveFit, error)
}

func (m *MockDetectionClient) DetectColumns(ctx context.Context, filename string, file io.Reader) (*domain.ColumnList, error) {
	if m.DetectColumnsFunc != nil {
		return m.DetectColumnsFunc(ctx, filename, file)
	}
	return &domain.ColumnList{Columns: []string{}}, nil
}

func (m *MockDetectionClient) DetectColumn(ctx context.Context, filename string, file io.Reader, column string) (*domain.ColumnDetection, error) {
	if m.DetectColumnFunc != nil {
		return m.DetectColumnFunc(ctx, filename, file, column)
	}
	return &domain.ColumnDetection{BestDistribution: "normal", Parameters: []float64{0, 1}}, nil
}

func (m *MockDetectionClient) FitCurve(ctx context.Context, req domain.CurveFitRequest) (*domain.CurveFit, error) {
	if m.FitCurveFunc != nil {
		return m.FitCurveFunc(ctx, req)
	}
	return &domain.CurveFit{BestDistribution: "normal", Parameters: []float64{0, 1}}, nil
}

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []wizard.Event
}

func (p *recordingPublisher) Publish(event wizard.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
