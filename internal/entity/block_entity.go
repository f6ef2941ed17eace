package entity

import (
	"time"

	"github.com/google/uuid"
)

// Block is one addressable unit of a structured document. Position orders
// blocks within their document.
type Block struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentId uuid.UUID `gorm:"type:uuid;index"`
	Position   int
	Text       string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
