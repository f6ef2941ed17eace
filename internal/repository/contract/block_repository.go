package contract

import (
	"context"

	"ai-writeassist-be/internal/entity"
	"ai-writeassist-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BlockRepository interface {
	Create(ctx context.Context, block *entity.Block) error
	Update(ctx context.Context, block *entity.Block) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Block, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Block, error)
}
