package session

import (
	"sync"
	"time"
)

// Recovery delays back to idle. The error delay is longer so the user has
// time to read the message.
const (
	DoneRecoveryDelay  = 2 * time.Second
	ErrorRecoveryDelay = 3 * time.Second
)

// RecoveryScheduler owns the one-shot timer that returns the session to
// idle after a terminal phase. At most one timer is pending at any time:
// arming replaces (and cancels) any earlier timer.
type RecoveryScheduler struct {
	clock Clock

	mu      sync.Mutex
	pending Timer
}

// NewRecoveryScheduler creates a scheduler on the given clock.
func NewRecoveryScheduler(clock Clock) *RecoveryScheduler {
	return &RecoveryScheduler{clock: clock}
}

// Arm schedules onFire to run after delay, cancelling any previously armed
// timer first.
func (s *RecoveryScheduler) Arm(delay time.Duration, onFire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.pending.Stop()
	}
	s.pending = s.clock.AfterFunc(delay, onFire)
}

// CancelPending cancels the pending timer, if any, without firing it.
func (s *RecoveryScheduler) CancelPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}
