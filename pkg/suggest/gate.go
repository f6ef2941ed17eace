package suggest

import (
	"strings"

	"github.com/google/uuid"
)

// GateInput is the snapshot of editor state the eligibility gate judges.
type GateInput struct {
	BlockID          uuid.UUID
	Text             string
	CursorAtBoundary bool
	OverlayShown     bool
}

// Gate denial reasons, surfaced for debug logging only.
const (
	denyOverlayShown   = "overlay already shown"
	denyLocked         = "fetch in flight"
	denyCursor         = "cursor not at a boundary"
	denyTooShort       = "block below minimum length"
	denyUnchanged      = "no change since last resolution"
	denyMinGap         = "below minimum new characters"
	denyAlreadyOffered = "identical content already offered"
)

// CheckEligibility is the pure predicate deciding whether a suggestion
// attempt may proceed for the given state. It is evaluated three times per
// attempt: before arming the debounce timer, when the timer fires, and
// immediately before a fetched result is rendered. Rules are applied in
// order and the first failing rule wins.
func CheckEligibility(session *Session, in GateInput, cfg Config) (bool, string) {
	if in.OverlayShown {
		return false, denyOverlayShown
	}
	if session.Locked {
		return false, denyLocked
	}
	if !in.CursorAtBoundary {
		return false, denyCursor
	}
	if len(strings.TrimSpace(in.Text)) < cfg.MinBlockLength {
		return false, denyTooShort
	}
	if in.BlockID == session.ActiveBlockID && !session.HasChangedSinceLastResolution {
		return false, denyUnchanged
	}
	if session.CharsTypedSinceLastResolution < cfg.MinCharsBetween {
		return false, denyMinGap
	}
	if in.Text == session.LastSuggestedText {
		return false, denyAlreadyOffered
	}
	return true, ""
}

// AtBoundary reports whether the cursor offset sits at the end of the text
// or directly after a sentence or paragraph boundary. Suggestions are never
// offered mid-sentence.
func AtBoundary(text string, offset int) bool {
	if offset < 0 || offset > len(text) {
		return false
	}
	if offset == len(text) {
		return true
	}
	before := strings.TrimRight(text[:offset], " ")
	if before == "" {
		return false
	}
	switch before[len(before)-1] {
	case '.', '!', '?', '\n':
		return true
	}
	return false
}
