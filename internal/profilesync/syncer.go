package profilesync

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"synthdata-wizard-api/internal/domain"
)

// DefaultWindow is the quiescence period before a change is saved
const DefaultWindow = time.Second

// DefaultSaveTimeout bounds a single save call
const DefaultSaveTimeout = 10 * time.Second

// Store persists profile payloads
type Store interface {
	LoadProfileData(ctx context.Context, profileID string) (*domain.ProfileData, error)
	SaveProfileData(ctx context.Context, profileID string, data domain.ProfileData) error
}

// Hooks are called after every save attempt. Either may be nil.
type Hooks struct {
	OnSaved  func(profileID string, duration time.Duration)
	OnFailed func(profileID string, err error)
}

// Options configure a Syncer
type Options struct {
	Window      time.Duration
	SaveTimeout time.Duration
	Clock       clockwork.Clock
	Logger      *zap.Logger
	Hooks       Hooks
}

// Syncer debounces saves of one profile. Every observed state that differs
// from the last saved one restarts the timer; when the timer elapses the
// latest state is saved once. Failed saves are not retried.
type Syncer struct {
	profileID   string
	store       Store
	window      time.Duration
	saveTimeout time.Duration
	clock       clockwork.Clock
	logger      *zap.Logger
	hooks       Hooks

	mu         sync.Mutex
	timer      clockwork.Timer
	pending    *domain.ProfileData
	pendingRaw []byte
	generation uint64
	lastSaved  []byte
	savedGen   uint64
	inFlight   []byte
	flightGen  uint64
	stopped    bool
}

// New creates a Syncer for profileID
func New(profileID string, store Store, opts Options) *Syncer {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = DefaultSaveTimeout
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Syncer{
		profileID:   profileID,
		store:       store,
		window:      opts.Window,
		saveTimeout: opts.SaveTimeout,
		clock:       opts.Clock,
		logger:      opts.Logger.With(zap.String("profile_id", profileID)),
		hooks:       opts.Hooks,
	}
}

// ProfileID returns the synced profile id
func (s *Syncer) ProfileID() string {
	return s.profileID
}

// Load fetches the profile payload once. Without a profile id nothing is fetched.
func (s *Syncer) Load(ctx context.Context) (*domain.ProfileData, error) {
	if s.profileID == "" {
		return nil, nil
	}
	data, err := s.store.LoadProfileData(ctx, s.profileID)
	if err != nil {
		s.logger.Warn("Failed to load profile data", zap.Error(err))
		return nil, err
	}
	return data, nil
}

// MarkSaved records data as the last saved state without saving it
func (s *Syncer) MarkSaved(data domain.ProfileData) {
	raw, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("Failed to serialise profile data", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSaved = raw
}

// Observe reports the current state. It never blocks on the store.
func (s *Syncer) Observe(data domain.ProfileData) {
	if s.profileID == "" {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("Failed to serialise profile data", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopTimer()
	if bytes.Equal(raw, s.baseline()) {
		s.pending = nil
		s.pendingRaw = nil
		return
	}

	s.generation++
	gen := s.generation
	s.pending = &data
	s.pendingRaw = raw
	s.timer = s.clock.AfterFunc(s.window, func() {
		s.fire(gen)
	})
}

// Pending reports whether a change is waiting for its timer
func (s *Syncer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Flush saves a pending change immediately
func (s *Syncer) Flush(ctx context.Context) error {
	s.mu.Lock()
	s.stopTimer()
	data, raw, gen, ok := s.take()
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.save(ctx, data, raw, gen)
}

// Stop cancels a pending save. Later observations are ignored.
func (s *Syncer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.stopTimer()
	s.pending = nil
	s.pendingRaw = nil
}

// fire runs on the timer. It must not call the clock.
func (s *Syncer) fire(gen uint64) {
	s.mu.Lock()
	if s.stopped || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	data, raw, gen, ok := s.take()
	s.mu.Unlock()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.saveTimeout)
	defer cancel()
	_ = s.save(ctx, data, raw, gen)
}

// take removes the pending state. Caller holds mu.
func (s *Syncer) take() (domain.ProfileData, []byte, uint64, bool) {
	if s.pending == nil {
		return domain.ProfileData{}, nil, 0, false
	}
	data, raw := *s.pending, s.pendingRaw
	s.pending = nil
	s.pendingRaw = nil
	return data, raw, s.generation, true
}

// baseline is what the store holds once the save in flight lands. Caller holds mu.
func (s *Syncer) baseline() []byte {
	if s.inFlight != nil {
		return s.inFlight
	}
	return s.lastSaved
}

func (s *Syncer) save(ctx context.Context, data domain.ProfileData, raw []byte, gen uint64) error {
	s.mu.Lock()
	s.inFlight, s.flightGen = raw, gen
	s.mu.Unlock()

	start := time.Now()
	err := s.store.SaveProfileData(ctx, s.profileID, data)
	duration := time.Since(start)

	s.mu.Lock()
	if s.flightGen == gen {
		s.inFlight = nil
	}
	if err == nil && gen >= s.savedGen {
		s.savedGen = gen
		s.lastSaved = raw
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("Profile save failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		if s.hooks.OnFailed != nil {
			s.hooks.OnFailed(s.profileID, err)
		}
		return err
	}

	s.logger.Debug("Profile saved",
		zap.Int("rows", len(data.Rows)),
		zap.Duration("duration", duration),
	)
	if s.hooks.OnSaved != nil {
		s.hooks.OnSaved(s.profileID, duration)
	}
	return nil
}

func (s *Syncer) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
