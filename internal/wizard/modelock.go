package wizard

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"synthdata-wizard-api/internal/domain"
	"synthdata-wizard-api/internal/response"
)

const eventReset = "reset"

func enterEvent(mode domain.DistributionMode) string {
	return "enter_" + string(mode)
}

// ModeLock restricts a field to one distribution definition method at a time.
// It is not safe for concurrent use, the owning Session locks it.
type ModeLock struct {
	machine *fsm.FSM
}

// NewModeLock returns a lock in the none state
func NewModeLock() *ModeLock {
	locking := make([]string, 0, len(domain.LockingModes))
	events := make(fsm.Events, 0, len(domain.LockingModes)+1)
	for _, mode := range domain.LockingModes {
		locking = append(locking, string(mode))
		events = append(events, fsm.EventDesc{
			Name: enterEvent(mode),
			Src:  []string{string(domain.ModeNone)},
			Dst:  string(mode),
		})
	}
	events = append(events, fsm.EventDesc{Name: eventReset, Src: locking, Dst: string(domain.ModeNone)})

	return &ModeLock{
		machine: fsm.NewFSM(string(domain.ModeNone), events, fsm.Callbacks{}),
	}
}

// Current returns the active mode
func (l *ModeLock) Current() domain.DistributionMode {
	return domain.DistributionMode(l.machine.Current())
}

// Locked reports whether a definition method is active
func (l *ModeLock) Locked() bool {
	return l.Current() != domain.ModeNone
}

// CanEnter reports whether mode may be entered now
func (l *ModeLock) CanEnter(mode domain.DistributionMode) bool {
	if mode == domain.ModeNone {
		return true
	}
	return !l.Locked() || mode == l.Current()
}

// Availability returns CanEnter for every locking mode
func (l *ModeLock) Availability() map[domain.DistributionMode]bool {
	out := make(map[domain.DistributionMode]bool, len(domain.LockingModes))
	for _, mode := range domain.LockingModes {
		out[mode] = l.CanEnter(mode)
	}
	return out
}

// Enter activates mode. Re-entering the active mode succeeds without change;
// entering none is a reset.
func (l *ModeLock) Enter(ctx context.Context, mode domain.DistributionMode) error {
	if !mode.Valid() {
		return response.NewValidationError("Unknown distribution mode", string(mode))
	}
	if mode == domain.ModeNone {
		return l.Reset(ctx)
	}
	if mode == l.Current() {
		return nil
	}
	if l.Locked() {
		return response.NewModeLockedError(
			fmt.Sprintf("Field is locked to %s mode", l.Current()),
			fmt.Sprintf("reset the field before switching to %s", mode),
		)
	}
	if err := l.machine.Event(ctx, enterEvent(mode)); err != nil {
		return fmt.Errorf("enter %s: %w", mode, err)
	}
	return nil
}

// Reset returns the lock to none. It always succeeds.
func (l *ModeLock) Reset(ctx context.Context) error {
	if !l.Locked() {
		return nil
	}
	if err := l.machine.Event(ctx, eventReset); err != nil {
		l.machine.SetState(string(domain.ModeNone))
	}
	return nil
}
