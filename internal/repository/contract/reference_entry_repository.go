package contract

import (
	"context"

	"ai-writeassist-be/internal/entity"
	"ai-writeassist-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ReferenceEntryRepository interface {
	Create(ctx context.Context, entry *entity.ReferenceEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ReferenceEntry, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ReferenceEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
