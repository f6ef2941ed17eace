package dto

import "github.com/google/uuid"

// Inbound editor events carried over the websocket. Type discriminates the
// payload; unknown types are ignored so older clients stay compatible.
const (
	EditorEventContentChanged   = "content_changed"
	EditorEventKeyDown          = "key_down"
	EditorEventSelectionChanged = "selection_changed"
	EditorEventBlur             = "blur"
)

type EditorEvent struct {
	Type         string    `json:"type" validate:"required"`
	BlockId      uuid.UUID `json:"block_id,omitempty"`
	Text         string    `json:"text,omitempty"`
	CursorOffset int       `json:"cursor_offset,omitempty"`
	Key          string    `json:"key,omitempty"`
}

// Outbound editor commands pushed to the client.
const (
	EditorCommandShowOverlay   = "show_overlay"
	EditorCommandRemoveOverlay = "remove_overlay"
	EditorCommandReplaceBlock  = "replace_block"
	EditorCommandLedgerUpsert  = "ledger_upsert"
	EditorCommandSetCursor     = "set_cursor"
)

type EditorCommand struct {
	Type     string           `json:"type"`
	BlockId  uuid.UUID        `json:"block_id,omitempty"`
	Handle   string           `json:"handle,omitempty"`
	Text     string           `json:"text,omitempty"`
	Citation *CitationPayload `json:"citation,omitempty"`
}

type CitationPayload struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Year    int      `json:"year"`
	DOI     string   `json:"doi,omitempty"`
	URL     string   `json:"url,omitempty"`
}
