package mapper

import (
	"encoding/json"

	"ai-writeassist-be/internal/entity"
	"ai-writeassist-be/internal/model"

	"gorm.io/datatypes"
)

type ReferenceEntryMapper struct{}

func NewReferenceEntryMapper() *ReferenceEntryMapper {
	return &ReferenceEntryMapper{}
}

func (m *ReferenceEntryMapper) ToEntity(r *model.ReferenceEntry) *entity.ReferenceEntry {
	if r == nil {
		return nil
	}

	var authors []string
	if len(r.Authors) > 0 {
		// A malformed column yields an empty author list rather than an error;
		// display code tolerates it.
		_ = json.Unmarshal(r.Authors, &authors)
	}

	return &entity.ReferenceEntry{
		Id:         r.Id,
		DocumentId: r.DocumentId,
		Title:      r.Title,
		Authors:    authors,
		Year:       r.Year,
		Doi:        r.Doi,
		Url:        r.Url,
		CreatedAt:  r.CreatedAt,
	}
}

func (m *ReferenceEntryMapper) ToModel(r *entity.ReferenceEntry) *model.ReferenceEntry {
	if r == nil {
		return nil
	}

	authors, _ := json.Marshal(r.Authors)

	return &model.ReferenceEntry{
		Id:         r.Id,
		DocumentId: r.DocumentId,
		Title:      r.Title,
		Authors:    datatypes.JSON(authors),
		Year:       r.Year,
		Doi:        r.Doi,
		Url:        r.Url,
		CreatedAt:  r.CreatedAt,
	}
}

func (m *ReferenceEntryMapper) ToEntities(rows []*model.ReferenceEntry) []*entity.ReferenceEntry {
	entities := make([]*entity.ReferenceEntry, len(rows))
	for i, r := range rows {
		entities[i] = m.ToEntity(r)
	}
	return entities
}
