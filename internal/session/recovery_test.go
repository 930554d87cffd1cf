package session

import (
	"testing"
	"time"
)

func TestRecoverySchedulerFiresAfterDelay(t *testing.T) {
	clock := newFakeClock()
	sched := NewRecoveryScheduler(clock)

	fired := false
	sched.Arm(2*time.Second, func() { fired = true })

	clock.Advance(1999 * time.Millisecond)
	if fired {
		t.Fatal("timer fired early")
	}
	clock.Advance(1 * time.Millisecond)
	if !fired {
		t.Fatal("timer did not fire at the scheduled delay")
	}
}

func TestRecoverySchedulerArmReplacesPending(t *testing.T) {
	clock := newFakeClock()
	sched := NewRecoveryScheduler(clock)

	var first, second bool
	sched.Arm(time.Second, func() { first = true })
	sched.Arm(time.Second, func() { second = true })

	if got := clock.pendingTimers(); got != 1 {
		t.Fatalf("pending timers = %d, want 1", got)
	}

	clock.Advance(time.Second)
	if first {
		t.Fatal("replaced timer fired")
	}
	if !second {
		t.Fatal("replacement timer did not fire")
	}
}

func TestRecoverySchedulerCancelPending(t *testing.T) {
	clock := newFakeClock()
	sched := NewRecoveryScheduler(clock)

	fired := false
	sched.Arm(time.Second, func() { fired = true })
	sched.CancelPending()

	clock.Advance(time.Minute)
	if fired {
		t.Fatal("cancelled timer fired")
	}

	// Cancelling with nothing pending is a no-op.
	sched.CancelPending()
}
