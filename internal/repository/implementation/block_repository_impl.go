package implementation

import (
	"context"
	"errors"

	"ai-writeassist-be/internal/entity"
	"ai-writeassist-be/internal/mapper"
	"ai-writeassist-be/internal/model"
	"ai-writeassist-be/internal/repository/contract"
	"ai-writeassist-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BlockRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BlockMapper
}

func NewBlockRepository(db *gorm.DB) contract.BlockRepository {
	return &BlockRepositoryImpl{
		db:     db,
		mapper: mapper.NewBlockMapper(),
	}
}

func (r *BlockRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BlockRepositoryImpl) Create(ctx context.Context, block *entity.Block) error {
	m := r.mapper.ToModel(block)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*block = *r.mapper.ToEntity(m)
	return nil
}

func (r *BlockRepositoryImpl) Update(ctx context.Context, block *entity.Block) error {
	m := r.mapper.ToModel(block)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*block = *r.mapper.ToEntity(m)
	return nil
}

func (r *BlockRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Block{}, id).Error
}

func (r *BlockRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Block, error) {
	var m model.Block
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *BlockRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Block, error) {
	var models []*model.Block
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
