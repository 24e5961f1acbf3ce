package dto

import (
	"time"

	"github.com/google/uuid"

	"ai-studymate-be/pkg/store"
)

type CreateSessionRequest struct {
	MaterialId uuid.UUID `json:"material_id" validate:"required"`
	Variant    string    `json:"variant,omitempty"`
	Title      string    `json:"title,omitempty"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id         uuid.UUID  `json:"id"`
	MaterialId uuid.UUID  `json:"material_id"`
	Variant    string     `json:"variant"`
	Title      string     `json:"title"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id         uuid.UUID         `json:"id"`
	Role       string            `json:"role"`
	Chat       string            `json:"chat"`
	CreatedAt  time.Time         `json:"created_at"`
	References []store.Reference `json:"references,omitempty"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Chat          string    `json:"chat" validate:"required"`
}

type SendChatResponseChat struct {
	Id         uuid.UUID         `json:"id"`
	Chat       string            `json:"chat"`
	Role       string            `json:"role"`
	CreatedAt  time.Time         `json:"created_at"`
	References []store.Reference `json:"references,omitempty"`
}

type SendChatResponse struct {
	ChatSessionId    uuid.UUID             `json:"chat_session_id"`
	ChatSessionTitle string                `json:"title"`
	Sent             *SendChatResponseChat `json:"sent"`
	Reply            *SendChatResponseChat `json:"reply"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
}
