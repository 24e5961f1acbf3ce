package entity

import (
	"time"

	"github.com/google/uuid"

	"ai-studymate-be/pkg/store"
)

type ChatMessage struct {
	Id            uuid.UUID
	Chat          string
	Role          string
	ChatSessionId uuid.UUID
	References    []store.Reference
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
