package suggest

import (
	"log"

	"github.com/google/uuid"
)

// Tracker observes document mutations in the focused block and keeps the
// session's typing counters current.
type Tracker struct {
	logger *log.Logger
}

// NewTracker creates a new edit tracker.
func NewTracker(logger *log.Logger) *Tracker {
	return &Tracker{logger: logger}
}

// Observe updates the session for a content change in blockID. The caller
// resolves any shown suggestion (implicit reject) before calling this.
func (t *Tracker) Observe(session *Session, blockID uuid.UUID, text string) {
	if blockID != session.ActiveBlockID {
		// Focus moved to a different block: restart bookkeeping there.
		session.ActiveBlockID = blockID
		session.BaselineText = text
		session.CharsTypedSinceLastResolution = len(text)
		session.HasChangedSinceLastResolution = true
		t.logger.Printf("[TRACKER] Block switch, counters reset (len=%d)", len(text))
		return
	}

	delta := len(text) - len(session.BaselineText)
	if delta > 0 {
		session.CharsTypedSinceLastResolution += delta
	}
	session.HasChangedSinceLastResolution = text != session.BaselineText
	session.BaselineText = text
}
