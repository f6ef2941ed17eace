package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ReferenceEntry rows are unique per document by (title, year); the same
// work may legitimately appear in different documents' ledgers.
type ReferenceEntry struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reference_entries_key,priority:1"`
	Title      string         `gorm:"type:varchar(512);not null;uniqueIndex:idx_reference_entries_key,priority:2"`
	Authors    datatypes.JSON `gorm:"type:jsonb"`
	Year       int            `gorm:"not null;uniqueIndex:idx_reference_entries_key,priority:3"`
	Doi        *string        `gorm:"type:varchar(255)"`
	Url        *string        `gorm:"type:varchar(1024)"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
}

func (ReferenceEntry) TableName() string {
	return "reference_entries"
}
