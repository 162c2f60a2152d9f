package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/response"
)

func TestModeLock_Initial(t *testing.T) {
	lock := NewModeLock()

	assert.Equal(t, domain.ModeNone, lock.Current())
	assert.False(t, lock.Locked())
	for _, mode := range domain.LockingModes {
		assert.True(t, lock.CanEnter(mode), string(mode))
	}
}

func TestModeLock_Exclusivity(t *testing.T) {
	ctx := context.Background()
	lock := NewModeLock()

	require.NoError(t, lock.Enter(ctx, domain.ModeStandard))

	assert.True(t, lock.Locked())
	assert.True(t, lock.CanEnter(domain.ModeStandard), "re-entry stays legal")
	assert.False(t, lock.CanEnter(domain.ModeUpload))
	assert.False(t, lock.CanEnter(domain.ModeCustom))
	assert.False(t, lock.CanEnter(domain.ModeDependency))
	assert.True(t, lock.CanEnter(domain.ModeNone))

	assert.NoError(t, lock.Enter(ctx, domain.ModeStandard))

	err := lock.Enter(ctx, domain.ModeUpload)
	require.Error(t, err)
	assert.True(t, response.HasCode(err, response.ErrCodeModeLocked))
	assert.Equal(t, domain.ModeStandard, lock.Current())

	require.NoError(t, lock.Reset(ctx))
	assert.Equal(t, domain.ModeNone, lock.Current())
	assert.True(t, lock.CanEnter(domain.ModeUpload))

	require.NoError(t, lock.Enter(ctx, domain.ModeUpload))
	assert.Equal(t, domain.ModeUpload, lock.Current())
}

func TestModeLock_ResetAlwaysSucceeds(t *testing.T) {
	ctx := context.Background()
	lock := NewModeLock()

	assert.NoError(t, lock.Reset(ctx))
	assert.NoError(t, lock.Enter(ctx, domain.ModeNone))

	for _, mode := range domain.LockingModes {
		require.NoError(t, lock.Enter(ctx, mode))
		assert.NoError(t, lock.Reset(ctx))
		assert.Equal(t, domain.ModeNone, lock.Current())
	}
}

func TestModeLock_UnknownMode(t *testing.T) {
	lock := NewModeLock()
	err := lock.Enter(context.Background(), domain.DistributionMode("freehand"))

	assert.True(t, response.HasCode(err, response.ErrCodeValidation))
	assert.Equal(t, domain.ModeNone, lock.Current())
}

func TestModeLock_Availability(t *testing.T) {
	lock := NewModeLock()
	require.NoError(t, lock.Enter(context.Background(), domain.ModeCustom))

	assert.Equal(t, map[domain.DistributionMode]bool{
		domain.ModeStandard:   false,
		domain.ModeUpload:     false,
		domain.ModeCustom:     true,
		domain.ModeDependency: false,
	}, lock.Availability())
}
