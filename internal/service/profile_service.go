package service

import (
	"context"
	"errors"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"synthdata-wizard-api/internal/cache"
	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/metrics"
	"synthdata-wizard-api/internal/repository"
	"synthdata-wizard-api/internal/response"
)

// maxProfileNameLength matches the profiles.name column
const maxProfileNameLength = 200

// ProfileStore is the profile directory and payload store a wizard session
// syncs against. It is served locally by ProfileService or remotely by
// client.ProfileClient.
type ProfileStore interface {
	ListProfiles(ctx context.Context) ([]domain.ProfileSummary, error)
	CreateProfile(ctx context.Context, name string) (*domain.ProfileSummary, error)
	DeleteProfile(ctx context.Context, profileID string) error
	LoadProfileData(ctx context.Context, profileID string) (*domain.ProfileData, error)
	SaveProfileData(ctx context.Context, profileID string, data domain.ProfileData) error
}

// ProfileService defines the local profile store
type ProfileService interface {
	ProfileStore
}

// profileServiceImpl is the implementation of ProfileService
type profileServiceImpl struct {
	profileRepo repository.ProfileRepository
	cache       cache.ProfileCache
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewProfileService creates a new instance of ProfileService
func NewProfileService(profileRepo repository.ProfileRepository, profileCache cache.ProfileCache, m *metrics.Metrics, logger *zap.Logger) ProfileService {
	if profileCache == nil {
		profileCache = cache.NoopProfileCache{}
	}
	return &profileServiceImpl{
		profileRepo: profileRepo,
		cache:       profileCache,
		metrics:     m,
		logger:      logger,
	}
}

// ListProfiles returns the profile directory
func (s *profileServiceImpl) ListProfiles(ctx context.Context) ([]domain.ProfileSummary, error) {
	profiles, err := s.profileRepo.FindAll(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list profiles", err.Error())
	}

	summaries := make([]domain.ProfileSummary, 0, len(profiles))
	for _, p := range profiles {
		summaries = append(summaries, domain.ProfileSummary{ID: p.ID.String(), Name: p.Name})
	}
	return summaries, nil
}

// CreateProfile creates an empty profile
func (s *profileServiceImpl) CreateProfile(ctx context.Context, name string) (*domain.ProfileSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, response.NewValidationError("Profile name is required", "")
	}
	if len([]rune(name)) > maxProfileNameLength {
		return nil, response.NewValidationError("Profile name is too long", "")
	}

	profile := &domain.Profile{Name: name}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create profile", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementProfileCreated()
	}
	s.logger.Info("Profile created",
		zap.String("profile_id", profile.ID.String()),
		zap.String("name", name),
	)

	return &domain.ProfileSummary{ID: profile.ID.String(), Name: profile.Name}, nil
}

// DeleteProfile removes a profile and its cached payload
func (s *profileServiceImpl) DeleteProfile(ctx context.Context, profileID string) error {
	id, err := parseProfileID(profileID)
	if err != nil {
		return err
	}

	if err := s.profileRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Profile not found", profileID)
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete profile", err.Error())
	}

	s.cache.Invalidate(ctx, profileID)
	s.logger.Info("Profile deleted", zap.String("profile_id", profileID))
	return nil
}

// LoadProfileData returns the stored payload. A profile that was never
// saved yields an empty payload.
func (s *profileServiceImpl) LoadProfileData(ctx context.Context, profileID string) (*domain.ProfileData, error) {
	id, err := parseProfileID(profileID)
	if err != nil {
		return nil, err
	}

	if data, ok := s.cache.Get(ctx, profileID); ok {
		return data, nil
	}

	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Profile not found", profileID)
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load profile", err.Error())
	}

	data := &domain.ProfileData{}
	if len(profile.Data) > 0 {
		if err := json.Unmarshal(profile.Data, data); err != nil {
			s.logger.Error("Stored profile payload is malformed",
				zap.String("profile_id", profileID),
				zap.Error(err),
			)
			return nil, response.NewAppError(response.ErrCodeInternal, "Stored profile data is malformed", err.Error())
		}
	}

	s.cache.Set(ctx, profileID, *data)
	return data, nil
}

// SaveProfileData replaces the stored payload
func (s *profileServiceImpl) SaveProfileData(ctx context.Context, profileID string, data domain.ProfileData) error {
	id, err := parseProfileID(profileID)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return response.NewValidationError("Profile data cannot be serialised", err.Error())
	}

	if err := s.profileRepo.UpdateData(ctx, id, datatypes.JSON(raw)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFoundError("Profile not found", profileID)
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to save profile", err.Error())
	}

	s.cache.Set(ctx, profileID, data)
	s.logger.Debug("Profile data saved",
		zap.String("profile_id", profileID),
		zap.Int("rows", len(data.Rows)),
	)
	return nil
}

func parseProfileID(profileID string) (uuid.UUID, error) {
	id, err := uuid.Parse(profileID)
	if err != nil {
		return uuid.Nil, response.NewValidationError("Invalid profile ID", profileID)
	}
	return id, nil
}
