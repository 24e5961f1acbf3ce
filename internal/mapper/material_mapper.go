package mapper

import (
	"time"

	"ai-studymate-be/internal/entity"
	"ai-studymate-be/internal/model"

	"gorm.io/gorm"
)

type MaterialMapper struct{}

func NewMaterialMapper() *MaterialMapper {
	return &MaterialMapper{}
}

func (m *MaterialMapper) ToEntity(mat *model.Material) *entity.Material {
	if mat == nil {
		return nil
	}

	var deletedAt *time.Time
	if mat.DeletedAt.Valid {
		t := mat.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !mat.UpdatedAt.IsZero() {
		t := mat.UpdatedAt
		updatedAt = &t
	}

	return &entity.Material{
		Id:                mat.Id,
		Title:             mat.Title,
		Content:           mat.Content,
		TranslatedContent: mat.TranslatedContent,
		CreatedAt:         mat.CreatedAt,
		UpdatedAt:         updatedAt,
		DeletedAt:         deletedAt,
		IsDeleted:         mat.DeletedAt.Valid,
	}
}

func (m *MaterialMapper) ToModel(mat *entity.Material) *model.Material {
	if mat == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if mat.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *mat.DeletedAt, Valid: true}
	} else if mat.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if mat.UpdatedAt != nil {
		updatedAt = *mat.UpdatedAt
	}

	return &model.Material{
		Id:                mat.Id,
		Title:             mat.Title,
		Content:           mat.Content,
		TranslatedContent: mat.TranslatedContent,
		CreatedAt:         mat.CreatedAt,
		UpdatedAt:         updatedAt,
		DeletedAt:         deletedAt,
	}
}

func (m *MaterialMapper) ToEntities(materials []*model.Material) []*entity.Material {
	entities := make([]*entity.Material, len(materials))
	for i, mat := range materials {
		entities[i] = m.ToEntity(mat)
	}
	return entities
}
