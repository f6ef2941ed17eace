package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReferenceEntry is one persisted citation in a document's reference ledger.
// Entries are unique per document by (Title, Year).
type ReferenceEntry struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentId uuid.UUID `gorm:"type:uuid;not null;index"`
	Title      string
	Authors    []string // ordered, first author first
	Year       int
	Doi        *string
	Url        *string
	CreatedAt  time.Time
}
