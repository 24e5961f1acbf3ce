package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMaterialRequest struct {
	Title             string `json:"title" validate:"required,max=255"`
	Content           string `json:"content" validate:"required"`
	TranslatedContent string `json:"translated_content,omitempty"`
}

type CreateMaterialResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowMaterialResponse struct {
	Id                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	TranslatedContent string     `json:"translated_content,omitempty"`
	HasTranslation    bool       `json:"has_translation"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

type ListMaterialItem struct {
	Id             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	HasTranslation bool       `json:"has_translation"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

type UpdateMaterialRequest struct {
	Id                uuid.UUID `json:"-"`
	Title             string    `json:"title" validate:"required,max=255"`
	Content           string    `json:"content" validate:"required"`
	TranslatedContent string    `json:"translated_content,omitempty"`
}

type UpdateMaterialResponse struct {
	Id uuid.UUID `json:"id"`
}
