package entity

import (
	"time"

	"github.com/google/uuid"
)

type Material struct {
	Id                uuid.UUID
	Title             string
	Content           string
	TranslatedContent string
	CreatedAt         time.Time
	UpdatedAt         *time.Time
	DeletedAt         *time.Time
	IsDeleted         bool
}

// HasTranslation reports whether the translated variant can be served.
func (m *Material) HasTranslation() bool {
	return m.TranslatedContent != ""
}
