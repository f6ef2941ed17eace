package suggest

import (
	"fmt"
	"log"
	"strings"
)

// ShownSuggestion pairs a rendered overlay with the block content it was
// rendered over, so reject can verify a byte-identical restore.
type ShownSuggestion struct {
	Suggestion Suggestion
	PriorText  string
	Rendered   string
	Handle     OverlayHandle
}

// Presenter renders suggestions as overlays and resolves them. The overlay
// is always a projection of the Suggestion value; the presenter never reads
// state back out of the host.
type Presenter struct {
	host   HostEditor
	logger *log.Logger
}

// NewPresenter creates a presenter over the host editor.
func NewPresenter(host HostEditor, logger *log.Logger) *Presenter {
	return &Presenter{host: host, logger: logger}
}

// NormalizeCompletion trims the raw completion and strips a single terminal
// period so composition never produces a duplicate one.
func NormalizeCompletion(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimSuffix(text, ".")
	return strings.TrimSpace(text)
}

// InlineLabel renders a citation for inline display, keyed on author count:
// (Surname, Year), (Surname1 & Surname2, Year), or (Surname1 et al., Year).
func InlineLabel(c Citation) string {
	switch len(c.Authors) {
	case 0:
		return fmt.Sprintf("(%d)", c.Year)
	case 1:
		return fmt.Sprintf("(%s, %d)", surname(c.Authors[0]), c.Year)
	case 2:
		return fmt.Sprintf("(%s & %s, %d)", surname(c.Authors[0]), surname(c.Authors[1]), c.Year)
	default:
		return fmt.Sprintf("(%s et al., %d)", surname(c.Authors[0]), c.Year)
	}
}

// Body composes the committed form of a suggestion: the normalized text, a
// single space plus the citation label when one is attached, and a terminal
// period.
func Body(sug Suggestion) string {
	body := sug.Text
	if sug.Citation != nil {
		body += " " + InlineLabel(*sug.Citation)
	}
	return body + "."
}

// Show inserts the overlay for the suggestion at the end of the block. The
// leading space separates it visually from the user's text; the document
// content itself is untouched.
func (p *Presenter) Show(sug Suggestion, priorText string) *ShownSuggestion {
	rendered := " " + Body(sug)
	handle := p.host.InsertOverlay(sug.BlockID, rendered)
	return &ShownSuggestion{
		Suggestion: sug,
		PriorText:  priorText,
		Rendered:   rendered,
		Handle:     handle,
	}
}

// Teardown removes the overlay without committing. The block keeps exactly
// the content it had before Show.
func (p *Presenter) Teardown(shown *ShownSuggestion) {
	p.host.RemoveOverlay(shown.Handle)
}

// Commit merges the shown suggestion into the document as one atomic content
// replacement, records the citation in the ledger when it is new, and leaves
// the caret at the end of the merged text.
func (p *Presenter) Commit(shown *ShownSuggestion, ledger *Ledger) string {
	final := strings.TrimSpace(shown.PriorText) + " " + Body(shown.Suggestion)

	p.host.RemoveOverlay(shown.Handle)
	p.host.ReplaceBlockContent(shown.Suggestion.BlockID, final)

	if c := shown.Suggestion.Citation; c != nil {
		if ledger.Upsert(*c) {
			p.host.UpsertReferenceLedgerEntry(*c)
		} else {
			p.logger.Printf("[PRESENTER] Citation already in ledger: %q (%d)", c.Title, c.Year)
		}
	}

	p.host.MoveCursorToEnd(shown.Suggestion.BlockID)
	return final
}
