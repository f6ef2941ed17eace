package suggest

import "time"

// Scheduler owns the single debounce timer for an engine. Arm and Cancel are
// only called from the engine goroutine; the fire callback is responsible for
// re-entering the engine loop (it runs on the timer's goroutine).
type Scheduler struct {
	quiet time.Duration
	fire  func()
	timer *time.Timer
}

// NewScheduler creates a scheduler with the given quiet period. fire is
// invoked once per armed timer after the quiet period elapses uncancelled.
func NewScheduler(quiet time.Duration, fire func()) *Scheduler {
	return &Scheduler{quiet: quiet, fire: fire}
}

// Arm cancels any outstanding timer and starts a fresh quiet period.
func (s *Scheduler) Arm() {
	s.Cancel()
	s.timer = time.AfterFunc(s.quiet, s.fire)
}

// Cancel stops the outstanding timer, if any, with no side effects.
func (s *Scheduler) Cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Armed reports whether a timer is currently outstanding. Used by tests and
// debug logging; a stopped-but-armed timer counts until Cancel runs.
func (s *Scheduler) Armed() bool {
	return s.timer != nil
}
