package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Title string `json:"title" validate:"required"`
}

type CreateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type BlockDTO struct {
	Id       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Position int       `json:"position"`
}

type ShowDocumentResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Blocks    []BlockDTO `json:"blocks"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetAllDocumentsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type UpdateDocumentRequest struct {
	Id    uuid.UUID
	Title string `json:"title" validate:"required"`
}

type UpdateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpsertBlockRequest struct {
	DocumentId uuid.UUID
	Id         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	Position   int       `json:"position" validate:"min=0"`
}

type UpsertBlockResponse struct {
	Id uuid.UUID `json:"id"`
}
