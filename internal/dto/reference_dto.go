package dto

import (
	"time"

	"github.com/google/uuid"
)

// ReferenceEntryDTO is a single row of a document's reference ledger,
// returned in first-author surname order.
type ReferenceEntryDTO struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Authors   []string  `json:"authors"`
	Year      int       `json:"year"`
	DOI       string    `json:"doi,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type GetLedgerResponse struct {
	DocumentId uuid.UUID           `json:"document_id"`
	Entries    []ReferenceEntryDTO `json:"entries"`
}

// LedgerUpsertMessage is the payload published to the LEDGER_UPSERT topic
// when an accepted suggestion carries a citation.
type LedgerUpsertMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
	UserId     uuid.UUID `json:"user_id"`
	Title      string    `json:"title"`
	Authors    []string  `json:"authors"`
	Year       int       `json:"year"`
	DOI        string    `json:"doi,omitempty"`
	URL        string    `json:"url,omitempty"`
}
