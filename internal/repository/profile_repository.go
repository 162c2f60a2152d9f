package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"synthdata-wizard-api/internal/domain"
)

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	FindAll(ctx context.Context) ([]*domain.Profile, error)
	UpdateData(ctx context.Context, id uuid.UUID, data datatypes.JSON) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// profileRepositoryImpl is the GORM implementation of ProfileRepository
type profileRepositoryImpl struct {
	db *gorm.DB
}

// NewProfileRepository creates a new instance of ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

// Create creates a new profile
func (r *profileRepositoryImpl) Create(ctx context.Context, profile *domain.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// FindByID finds a profile by its ID
func (r *profileRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindAll returns every profile, oldest first
func (r *profileRepositoryImpl) FindAll(ctx context.Context) ([]*domain.Profile, error) {
	var profiles []*domain.Profile
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// UpdateData replaces the stored payload. Returns gorm.ErrRecordNotFound
// when the profile does not exist.
func (r *profileRepositoryImpl) UpdateData(ctx context.Context, id uuid.UUID, data datatypes.JSON) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("id = ?", id).
		Update("data", data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete soft deletes a profile by ID
func (r *profileRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Profile{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count returns the number of live profiles
func (r *profileRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Profile{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
