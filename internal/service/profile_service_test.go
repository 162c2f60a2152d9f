package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/metrics"
	"synthdata-wizard-api/internal/repository"
	"synthdata-wizard-api/internal/response"
)

// memoryProfileCache is an in-memory cache.ProfileCache
type memoryProfileCache struct {
	mu    sync.Mutex
	items map[string]domain.ProfileData
	hits  int
}

func newMemoryProfileCache() *memoryProfileCache {
	return &memoryProfileCache{items: map[string]domain.ProfileData{}}
}

func (c *memoryProfileCache) Get(ctx context.Context, profileID string) (*domain.ProfileData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[profileID]
	if ok {
		c.hits++
	}
	return &data, ok
}

func (c *memoryProfileCache) Set(ctx context.Context, profileID string, data domain.ProfileData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[profileID] = data
}

func (c *memoryProfileCache) Invalidate(ctx context.Context, profileID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, profileID)
}

func setupProfileService(t *testing.T) (ProfileService, *memoryProfileCache, *metrics.Metrics) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Profile{}))

	profileCache := newMemoryProfileCache()
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	return NewProfileService(repository.NewProfileRepository(db), profileCache, m, zap.NewNop()), profileCache, m
}

func TestProfileService_CreateProfile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
	}{
		{"성공: 이름 공백 제거", "  Kunden  ", ""},
		{"실패: 빈 이름", "   ", response.ErrCodeValidation},
		{"실패: 너무 긴 이름", strings.Repeat("ä", maxProfileNameLength+1), response.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			svc, _, m := setupProfileService(t)

			// When
			summary, err := svc.CreateProfile(context.Background(), tt.input)

			// Then
			if tt.wantCode != "" {
				assert.True(t, response.HasCode(err, tt.wantCode))
				assert.Equal(t, float64(0), testutil.ToFloat64(m.ProfileCreatedTotal))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Kunden", summary.Name)
			_, parseErr := uuid.Parse(summary.ID)
			assert.NoError(t, parseErr)
			assert.Equal(t, float64(1), testutil.ToFloat64(m.ProfileCreatedTotal))
		})
	}
}

func TestProfileService_ListProfiles(t *testing.T) {
	svc, _, _ := setupProfileService(t)
	ctx := context.Background()

	empty, err := svc.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.ProfileSummary{}, empty)

	_, err = svc.CreateProfile(ctx, "eins")
	require.NoError(t, err)
	_, err = svc.CreateProfile(ctx, "zwei")
	require.NoError(t, err)

	list, err := svc.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "eins", list[0].Name)
	assert.Equal(t, "zwei", list[1].Name)
}

func TestProfileService_SaveAndLoad(t *testing.T) {
	// Given
	svc, profileCache, _ := setupProfileService(t)
	ctx := context.Background()
	summary, err := svc.CreateProfile(ctx, "Kunden")
	require.NoError(t, err)

	// When: never saved
	data, err := svc.LoadProfileData(ctx, summary.ID)

	// Then
	require.NoError(t, err)
	assert.Empty(t, data.Rows)
	assert.Zero(t, data.RowCount)

	// When: saved
	payload := domain.ProfileData{
		Rows:       []domain.FieldSpec{domain.NewFieldSpec("r1")},
		RowCount:   25,
		Format:     domain.FormatJSON,
		LineEnding: domain.LineEndingLF,
	}
	payload.Rows[0].Name = "alter"
	require.NoError(t, svc.SaveProfileData(ctx, summary.ID, payload))
	profileCache.Invalidate(ctx, summary.ID)

	loaded, err := svc.LoadProfileData(ctx, summary.ID)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.RowCount)
	assert.Equal(t, domain.FormatJSON, loaded.Format)
	assert.Equal(t, domain.LineEndingLF, loaded.LineEnding)
	require.Len(t, loaded.Rows, 1)
	assert.Equal(t, "alter", loaded.Rows[0].Name)

	// Then: second load is served from the cache
	hits := profileCache.hits
	_, err = svc.LoadProfileData(ctx, summary.ID)
	require.NoError(t, err)
	assert.Equal(t, hits+1, profileCache.hits)
}

func TestProfileService_Errors(t *testing.T) {
	svc, _, _ := setupProfileService(t)
	ctx := context.Background()
	missing := uuid.New().String()

	tests := []struct {
		name     string
		call     func() error
		wantCode string
	}{
		{"실패: 잘못된 ID로 로드", func() error { _, err := svc.LoadProfileData(ctx, "not-a-uuid"); return err }, response.ErrCodeValidation},
		{"실패: 없는 프로필 로드", func() error { _, err := svc.LoadProfileData(ctx, missing); return err }, response.ErrCodeNotFound},
		{"실패: 없는 프로필 저장", func() error { return svc.SaveProfileData(ctx, missing, domain.ProfileData{}) }, response.ErrCodeNotFound},
		{"실패: 없는 프로필 삭제", func() error { return svc.DeleteProfile(ctx, missing) }, response.ErrCodeNotFound},
		{"실패: 잘못된 ID로 삭제", func() error { return svc.DeleteProfile(ctx, "x") }, response.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.True(t, response.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestProfileService_DeleteInvalidatesCache(t *testing.T) {
	svc, profileCache, _ := setupProfileService(t)
	ctx := context.Background()
	summary, err := svc.CreateProfile(ctx, "Kunden")
	require.NoError(t, err)
	require.NoError(t, svc.SaveProfileData(ctx, summary.ID, domain.ProfileData{RowCount: 3}))

	require.NoError(t, svc.DeleteProfile(ctx, summary.ID))

	_, cached := profileCache.Get(ctx, summary.ID)
	assert.False(t, cached)
	_, err = svc.LoadProfileData(ctx, summary.ID)
	assert.True(t, response.HasCode(err, response.ErrCodeNotFound))
}
