package suggest

import "github.com/google/uuid"

// OverlayHandle identifies an overlay previously inserted into the host
// editor, so it can be removed without residue.
type OverlayHandle string

// FocusedBlock is the host's view of the block that currently has the caret.
type FocusedBlock struct {
	ID          uuid.UUID
	Text        string
	CursorAtEnd bool
}

// HostEditor is the set of operations the engine requires from the document
// editor it is embedded in. All calls happen on the engine goroutine; hosts
// bridging to a remote editor are expected to apply commands in order.
type HostEditor interface {
	// GetFocusedBlock returns the focused block, or ok=false when no block
	// has focus.
	GetFocusedBlock() (FocusedBlock, bool)

	// PrecedingBlocks returns the text of up to n blocks preceding blockID,
	// in document order, for continuation context.
	PrecedingBlocks(blockID uuid.UUID, n int) []string

	// ReplaceBlockContent atomically replaces the block's content.
	ReplaceBlockContent(blockID uuid.UUID, text string)

	// InsertOverlay renders a non-committed overlay at the end of the block.
	// The underlying document content is not mutated.
	InsertOverlay(blockID uuid.UUID, rendered string) OverlayHandle

	// RemoveOverlay tears the overlay down, restoring the block's visual
	// state exactly.
	RemoveOverlay(handle OverlayHandle)

	// UpsertReferenceLedgerEntry adds a citation to the document's reference
	// list. Dedup and ordering decisions are made by the committer before
	// this is called.
	UpsertReferenceLedgerEntry(citation Citation)

	// MoveCursorToEnd places the caret at the end of the block's content.
	MoveCursorToEnd(blockID uuid.UUID)
}
