package suggest

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is the single shared mutable record coordinating suggestion
// eligibility, locking and resolution bookkeeping for one editor. It is
// created once when the editor connects and lives until disconnect; it is
// mutated in place by the tracker, gate, scheduler, pipeline and committer,
// always on the engine goroutine.
type Session struct {
	// Locked is true while a fetch attempt is in flight. It is a cooperative
	// flag, not a mutex: everything that reads or writes it runs on the
	// engine goroutine.
	Locked bool

	// ActiveBlockID is the block a shown or pending suggestion belongs to.
	// uuid.Nil when no block owns the session.
	ActiveBlockID uuid.UUID

	// BaselineText is the block's text at the moment of the last
	// accept/reject, used to compute typing deltas.
	BaselineText string

	// HasChangedSinceLastResolution reports whether the active block's text
	// has changed since the last accept/reject.
	HasChangedSinceLastResolution bool

	// CharsTypedSinceLastResolution counts new characters typed in the
	// active block since the last resolution. Reset to the full block length
	// when the focused block changes.
	CharsTypedSinceLastResolution int

	// LastSuggestedText is the block text for which a suggestion was most
	// recently offered, used to avoid re-offering on identical content.
	// Empty when none.
	LastSuggestedText string
}

// Citation identifies a scholarly work attached to a suggestion.
type Citation struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"` // ordered, first author first
	Year    int      `json:"year"`
	DOI     string   `json:"doi,omitempty"`
	URL     string   `json:"url,omitempty"`
}

// FirstAuthorSurname returns the surname of the first author, taken as the
// last whitespace-separated token of the name. Empty when there are no
// authors.
func (c Citation) FirstAuthorSurname() string {
	if len(c.Authors) == 0 {
		return ""
	}
	return surname(c.Authors[0])
}

func surname(author string) string {
	fields := strings.Fields(author)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// Suggestion is the ephemeral value produced by a successful pipeline run.
// It exists only while shown; the overlay is purely a rendering projection
// of this value and can be rebuilt or torn down from it alone.
type Suggestion struct {
	// Text is the normalized completion: trimmed, no trailing period.
	Text     string
	Citation *Citation
	BlockID  uuid.UUID
}

// Config carries the engine tunables. The quiet period deliberately has no
// baked-in constant in the engine itself; callers load it from configuration.
type Config struct {
	QuietPeriod     time.Duration
	MinBlockLength  int
	MinCharsBetween int
	ContextBlocks   int
	AcceptKey       string
}

// DefaultConfig returns the tunables used when the host supplies none.
func DefaultConfig() Config {
	return Config{
		QuietPeriod:     2 * time.Second,
		MinBlockLength:  10,
		MinCharsBetween: 3,
		ContextBlocks:   3,
		AcceptKey:       "Tab",
	}
}
