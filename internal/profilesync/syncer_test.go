package profilesync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"synthdata-wizard-api/internal/domain"
)

type savedCall struct {
	profileID string
	data      domain.ProfileData
}

// mockStore records saves and signals each one on a channel
type mockStore struct {
	mu       sync.Mutex
	calls    []savedCall
	saved    chan savedCall
	saveErr  error
	loadData *domain.ProfileData
	loadErr  error
	loads    int
	// release, when set, holds every save until it is closed
	release chan struct{}
}

func newMockStore() *mockStore {
	return &mockStore{saved: make(chan savedCall, 16)}
}

func (m *mockStore) LoadProfileData(ctx context.Context, profileID string) (*domain.ProfileData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	return m.loadData, m.loadErr
}

func (m *mockStore) SaveProfileData(ctx context.Context, profileID string, data domain.ProfileData) error {
	m.mu.Lock()
	call := savedCall{profileID: profileID, data: data}
	m.calls = append(m.calls, call)
	err := m.saveErr
	release := m.release
	m.mu.Unlock()
	m.saved <- call
	if release != nil {
		<-release
	}
	return err
}

func (m *mockStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func waitSave(t *testing.T, store *mockStore) savedCall {
	t.Helper()
	select {
	case call := <-store.saved:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("expected a save call")
		return savedCall{}
	}
}

func assertNoSave(t *testing.T, store *mockStore) {
	t.Helper()
	select {
	case call := <-store.saved:
		t.Fatalf("unexpected save: %+v", call.data)
	case <-time.After(50 * time.Millisecond):
	}
}

func stateWithRowCount(n int) domain.ProfileData {
	return domain.ProfileData{
		Rows:       []domain.FieldSpec{domain.NewFieldSpec("r1")},
		RowCount:   n,
		Format:     domain.FormatCSV,
		LineEnding: domain.LineEndingCRLF,
	}
}

func newTestSyncer(store Store, clock clockwork.Clock, hooks Hooks) *Syncer {
	return New("p-1", store, Options{
		Window: time.Second,
		Clock:  clock,
		Logger: zap.NewNop(),
		Hooks:  hooks,
	})
}

func TestSyncer_DebounceCollapse(t *testing.T) {
	// Given
	store := newMockStore()
	clock := clockwork.NewFakeClock()
	s := newTestSyncer(store, clock, Hooks{})
	s.MarkSaved(stateWithRowCount(10))

	// When: edits at t=0, t=200ms, t=400ms
	s.Observe(stateWithRowCount(11))
	clock.Advance(200 * time.Millisecond)
	s.Observe(stateWithRowCount(12))
	clock.Advance(200 * time.Millisecond)
	s.Observe(stateWithRowCount(13))

	// Then: nothing before t=1400ms
	clock.Advance(999 * time.Millisecond)
	assertNoSave(t, store)
	assert.True(t, s.Pending())

	// exactly one save at t=1400ms with the last value
	clock.Advance(time.Millisecond)
	call := waitSave(t, store)
	assert.Equal(t, "p-1", call.profileID)
	assert.Equal(t, 13, call.data.RowCount)

	clock.Advance(5 * time.Second)
	assertNoSave(t, store)
	assert.Equal(t, 1, store.callCount())
}

func TestSyncer_NoOpSave(t *testing.T) {
	store := newMockStore()
	clock := clockwork.NewFakeClock()
	s := newTestSyncer(store, clock, Hooks{})
	s.MarkSaved(stateWithRowCount(10))

	// a change and its revert inside the window
	s.Observe(stateWithRowCount(11))
	clock.Advance(300 * time.Millisecond)
	s.Observe(stateWithRowCount(10))

	clock.Advance(3 * time.Second)
	assertNoSave(t, store)
	assert.Equal(t, 0, store.callCount())
	assert.False(t, s.Pending())
}

func TestSyncer_SavedStateBecomesBaseline(t *testing.T) {
	store := newMockStore()
	clock := clockwork.NewFakeClock()
	saved := make(chan struct{}, 1)
	s := newTestSyncer(store, clock, Hooks{
		OnSaved: func(string, time.Duration) { saved <- struct{}{} },
	})

	s.Observe(stateWithRowCount(20))
	clock.Advance(time.Second)
	waitSave(t, store)
	select {
	case <-saved:
	case <-time.After(2 * time.Second):
		t.Fatal("expected saved hook")
	}

	s.Observe(stateWithRowCount(20))
	clock.Advance(2 * time.Second)
	assertNoSave(t, store)
	assert.Equal(t, 1, store.callCount())
}

func TestSyncer_FailureIsReportedOnce(t *testing.T) {
	store := newMockStore()
	store.saveErr = errors.New("connection refused")
	clock := clockwork.NewFakeClock()

	failed := make(chan error, 4)
	s := newTestSyncer(store, clock, Hooks{
		OnFailed: func(profileID string, err error) { failed <- err },
	})

	s.Observe(stateWithRowCount(5))
	clock.Advance(time.Second)
	waitSave(t, store)

	select {
	case err := <-failed:
		assert.EqualError(t, err, "connection refused")
	case <-time.After(2 * time.Second):
		t.Fatal("expected failure hook")
	}

	// no retry
	clock.Advance(10 * time.Second)
	assertNoSave(t, store)
	assert.Equal(t, 1, store.callCount())
}

func TestSyncer_SavedHook(t *testing.T) {
	store := newMockStore()
	clock := clockwork.NewFakeClock()
	saved := make(chan string, 1)
	s := newTestSyncer(store, clock, Hooks{
		OnSaved: func(profileID string, _ time.Duration) { saved <- profileID },
	})

	s.Observe(stateWithRowCount(7))
	clock.Advance(time.Second)

	select {
	case id := <-saved:
		assert.Equal(t, "p-1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("expected saved hook")
	}
}

func TestSyncer_Flush(t *testing.T) {
	store := newMockStore()
	clock := clockwork.NewFakeClock()
	s := newTestSyncer(store, clock, Hooks{})

	require.NoError(t, s.Flush(context.Background()), "nothing pending")
	assert.Equal(t, 0, store.callCount())

	s.Observe(stateWithRowCount(3))
	require.NoError(t, s.Flush(context.Background()))
	call := waitSave(t, store)
	assert.Equal(t, 3, call.data.RowCount)

	// the cancelled timer does not save again
	clock.Advance(2 * time.Second)
	assertNoSave(t, store)
}

func TestSyncer_RevertDuringSaveIsSaved(t *testing.T) {
	// Given: 10 is saved, a save of 11 is in flight
	store := newMockStore()
	store.release = make(chan struct{})
	clock := clockwork.NewFakeClock()
	s := newTestSyncer(store, clock, Hooks{})
	s.MarkSaved(stateWithRowCount(10))
	s.Observe(stateWithRowCount(11))

	done := make(chan error, 1)
	go func() { done <- s.Flush(context.Background()) }()
	assert.Equal(t, 11, waitSave(t, store).data.RowCount)

	// When: the user reverts before the save returns
	s.Observe(stateWithRowCount(10))

	// Then: the revert is pending and saved after the first save lands
	assert.True(t, s.Pending())
	close(store.release)
	require.NoError(t, <-done)

	clock.Advance(time.Second)
	assert.Equal(t, 10, waitSave(t, store).data.RowCount)
	assert.Equal(t, 2, store.callCount())
}

func TestSyncer_Stop(t *testing.T) {
	store := newMockStore()
	clock := clockwork.NewFakeClock()
	s := newTestSyncer(store, clock, Hooks{})

	s.Observe(stateWithRowCount(3))
	s.Stop()
	s.Observe(stateWithRowCount(4))
	clock.Advance(2 * time.Second)

	assertNoSave(t, store)
	assert.False(t, s.Pending())
}

func TestSyncer_Load(t *testing.T) {
	store := newMockStore()
	store.loadData = &domain.ProfileData{RowCount: 99}

	s := newTestSyncer(store, clockwork.NewFakeClock(), Hooks{})
	data, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 99, data.RowCount)
	assert.Equal(t, 1, store.loads)

	store.loadErr = errors.New("boom")
	_, err = s.Load(context.Background())
	assert.Error(t, err)
}

func TestSyncer_NoProfileID(t *testing.T) {
	store := newMockStore()
	clock := clockwork.NewFakeClock()
	s := New("", store, Options{Clock: clock})

	data, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Equal(t, 0, store.loads)

	s.Observe(stateWithRowCount(1))
	clock.Advance(2 * time.Second)
	assertNoSave(t, store)
}
