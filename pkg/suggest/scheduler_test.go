package suggest

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerFiresAfterQuietPeriod(t *testing.T) {
	var fired atomic.Int32
	s := NewScheduler(20*time.Millisecond, func() { fired.Add(1) })

	s.Arm()
	time.Sleep(80 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
}

func TestSchedulerCancelPreventsFire(t *testing.T) {
	var fired atomic.Int32
	s := NewScheduler(20*time.Millisecond, func() { fired.Add(1) })

	s.Arm()
	s.Cancel()
	time.Sleep(60 * time.Millisecond)

	if got := fired.Load(); got != 0 {
		t.Errorf("fired %d times after cancel, want 0", got)
	}
	if s.Armed() {
		t.Error("Armed() should be false after Cancel")
	}
}

func TestSchedulerRearmRestartsQuietPeriod(t *testing.T) {
	var fired atomic.Int32
	s := NewScheduler(50*time.Millisecond, func() { fired.Add(1) })

	// Re-arm repeatedly inside the quiet period; only the final arm fires.
	s.Arm()
	time.Sleep(20 * time.Millisecond)
	s.Arm()
	time.Sleep(20 * time.Millisecond)
	s.Arm()

	time.Sleep(120 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
}
