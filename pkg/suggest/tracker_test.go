package suggest

import (
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestTrackerBlockSwitch(t *testing.T) {
	tr := NewTracker(testLogger())
	s := &Session{}
	blockID := uuid.New()

	tr.Observe(s, blockID, "Existing content")

	if s.ActiveBlockID != blockID {
		t.Errorf("ActiveBlockID = %v, want %v", s.ActiveBlockID, blockID)
	}
	if s.BaselineText != "Existing content" {
		t.Errorf("BaselineText = %q", s.BaselineText)
	}
	// Switching into a block counts its full length as typed.
	if s.CharsTypedSinceLastResolution != len("Existing content") {
		t.Errorf("CharsTyped = %d, want %d", s.CharsTypedSinceLastResolution, len("Existing content"))
	}
	if !s.HasChangedSinceLastResolution {
		t.Error("HasChanged should be true after a block switch")
	}
}

func TestTrackerSameBlockTyping(t *testing.T) {
	tr := NewTracker(testLogger())
	s := &Session{}
	blockID := uuid.New()

	tr.Observe(s, blockID, "abc")
	tr.Observe(s, blockID, "abcde")

	if s.CharsTypedSinceLastResolution != 5 {
		t.Errorf("CharsTyped = %d, want 5", s.CharsTypedSinceLastResolution)
	}
	if s.BaselineText != "abcde" {
		t.Errorf("BaselineText = %q", s.BaselineText)
	}
}

func TestTrackerDeletionsDoNotCount(t *testing.T) {
	tr := NewTracker(testLogger())
	s := &Session{}
	blockID := uuid.New()

	tr.Observe(s, blockID, "abcdef")
	typed := s.CharsTypedSinceLastResolution

	tr.Observe(s, blockID, "abc")

	if s.CharsTypedSinceLastResolution != typed {
		t.Errorf("CharsTyped = %d, want %d (deletions must not add)", s.CharsTypedSinceLastResolution, typed)
	}
	if !s.HasChangedSinceLastResolution {
		t.Error("a deletion is still a change")
	}
}

func TestTrackerRevertToBaseline(t *testing.T) {
	tr := NewTracker(testLogger())
	s := &Session{}
	blockID := uuid.New()

	tr.Observe(s, blockID, "stable text")
	s.HasChangedSinceLastResolution = false // as after a resolution

	tr.Observe(s, blockID, "stable text")
	if s.HasChangedSinceLastResolution {
		t.Error("identical text must not set HasChanged")
	}
}

func TestTrackerSwitchResetsCounters(t *testing.T) {
	tr := NewTracker(testLogger())
	s := &Session{}
	first, second := uuid.New(), uuid.New()

	tr.Observe(s, first, "first block content here")
	tr.Observe(s, second, "hi")

	if s.ActiveBlockID != second {
		t.Errorf("ActiveBlockID = %v, want %v", s.ActiveBlockID, second)
	}
	if s.CharsTypedSinceLastResolution != 2 {
		t.Errorf("CharsTyped = %d, want 2", s.CharsTypedSinceLastResolution)
	}
}
