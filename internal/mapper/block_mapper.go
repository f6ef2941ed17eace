package mapper

import (
	"time"

	"ai-writeassist-be/internal/entity"
	"ai-writeassist-be/internal/model"
)

type BlockMapper struct{}

func NewBlockMapper() *BlockMapper {
	return &BlockMapper{}
}

func (m *BlockMapper) ToEntity(b *model.Block) *entity.Block {
	if b == nil {
		return nil
	}

	var updatedAt *time.Time
	if !b.UpdatedAt.IsZero() {
		t := b.UpdatedAt
		updatedAt = &t
	}

	return &entity.Block{
		Id:         b.Id,
		DocumentId: b.DocumentId,
		Position:   b.Position,
		Text:       b.Text,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *BlockMapper) ToModel(b *entity.Block) *model.Block {
	if b == nil {
		return nil
	}

	var updatedAt time.Time
	if b.UpdatedAt != nil {
		updatedAt = *b.UpdatedAt
	}

	return &model.Block{
		Id:         b.Id,
		DocumentId: b.DocumentId,
		Position:   b.Position,
		Text:       b.Text,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *BlockMapper) ToEntities(blocks []*model.Block) []*entity.Block {
	entities := make([]*entity.Block, len(blocks))
	for i, b := range blocks {
		entities[i] = m.ToEntity(b)
	}
	return entities
}
