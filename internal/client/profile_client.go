package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/metrics"
)

// ProfileClient talks to a remote profile store
type ProfileClient interface {
	ListProfiles(ctx context.Context) ([]domain.ProfileSummary, error)
	CreateProfile(ctx context.Context, name string) (*domain.ProfileSummary, error)
	DeleteProfile(ctx context.Context, profileID string) error
	LoadProfileData(ctx context.Context, profileID string) (*domain.ProfileData, error)
	SaveProfileData(ctx context.Context, profileID string, data domain.ProfileData) error
}

type profileClient struct {
	baseClient
}

// NewProfileClient creates a profile store client
func NewProfileClient(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) ProfileClient {
	base := newBaseClient(baseURL, timeout, logger, m)
	base.missingOn404 = true
	return &profileClient{baseClient: base}
}

func (c *profileClient) ListProfiles(ctx context.Context) ([]domain.ProfileSummary, error) {
	profiles := []domain.ProfileSummary{}
	if err := c.doJSON(ctx, http.MethodGet, "/profiles", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (c *profileClient) CreateProfile(ctx context.Context, name string) (*domain.ProfileSummary, error) {
	var created domain.ProfileSummary
	body := map[string]string{"name": name}
	if err := c.doJSON(ctx, http.MethodPost, "/profiles", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *profileClient) DeleteProfile(ctx context.Context, profileID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/profiles/"+url.PathEscape(profileID), nil, nil)
}

func (c *profileClient) LoadProfileData(ctx context.Context, profileID string) (*domain.ProfileData, error) {
	var data domain.ProfileData
	if err := c.doJSON(ctx, http.MethodGet, dataPath(profileID), nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *profileClient) SaveProfileData(ctx context.Context, profileID string, data domain.ProfileData) error {
	return c.doJSON(ctx, http.MethodPost, dataPath(profileID), data, nil)
}

func dataPath(profileID string) string {
	return "/profiles/" + url.PathEscape(profileID) + "/data"
}
