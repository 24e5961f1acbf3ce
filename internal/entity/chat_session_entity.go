package entity

import (
	"time"

	"github.com/google/uuid"

	"ai-studymate-be/pkg/store"
)

type ChatSession struct {
	Id         uuid.UUID
	MaterialId uuid.UUID
	Variant    store.Variant
	Title      string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
