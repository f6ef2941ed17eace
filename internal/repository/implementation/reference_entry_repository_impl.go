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

type ReferenceEntryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReferenceEntryMapper
}

func NewReferenceEntryRepository(db *gorm.DB) contract.ReferenceEntryRepository {
	return &ReferenceEntryRepositoryImpl{
		db:     db,
		mapper: mapper.NewReferenceEntryMapper(),
	}
}

func (r *ReferenceEntryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ReferenceEntryRepositoryImpl) Create(ctx context.Context, entry *entity.ReferenceEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *ReferenceEntryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ReferenceEntry{}, id).Error
}

func (r *ReferenceEntryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ReferenceEntry, error) {
	var m model.ReferenceEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ReferenceEntryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ReferenceEntry, error) {
	var models []*model.ReferenceEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ReferenceEntryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ReferenceEntry{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
