package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-studymate-be/internal/entity"
	"ai-studymate-be/internal/model"
	"ai-studymate-be/pkg/store"
)

func TestChatMessageMapperReferencesRoundtrip(t *testing.T) {
	m := NewChatMessageMapper()

	msg := &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          "Photosynthesis converts light into chemical energy.",
		Role:          "model",
		ChatSessionId: uuid.New(),
		References: []store.Reference{
			{Ordinal: 2, Score: 0.87, Excerpt: "Photosynthesis converts light"},
			{Ordinal: 0, Score: 0.79, Excerpt: "Chlorophyll absorbs"},
		},
		CreatedAt: time.Now(),
	}

	stored := m.ToModel(msg)
	require.NotEmpty(t, stored.References)

	back := m.ToEntity(stored)
	require.Len(t, back.References, 2)
	assert.Equal(t, msg.References, back.References)
	assert.Equal(t, msg.Chat, back.Chat)
	assert.Equal(t, msg.Role, back.Role)
}

func TestChatMessageMapperNoReferences(t *testing.T) {
	m := NewChatMessageMapper()

	msg := &entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          "What is ATP?",
		Role:          "user",
		ChatSessionId: uuid.New(),
		CreatedAt:     time.Now(),
	}

	stored := m.ToModel(msg)
	assert.Empty(t, stored.References)

	back := m.ToEntity(stored)
	assert.Empty(t, back.References)
}

func TestChatSessionMapperVariant(t *testing.T) {
	m := NewChatSessionMapper()

	session := &entity.ChatSession{
		Id:         uuid.New(),
		MaterialId: uuid.New(),
		Variant:    store.VariantTranslated,
		Title:      "Biology review",
		CreatedAt:  time.Now(),
	}

	stored := m.ToModel(session)
	assert.Equal(t, "translated", stored.Variant)

	back := m.ToEntity(stored)
	assert.Equal(t, store.VariantTranslated, back.Variant)
}

func TestChatSessionMapperUnknownStoredVariantDegrades(t *testing.T) {
	m := NewChatSessionMapper()

	back := m.ToEntity(&model.ChatSession{
		Id:         uuid.New(),
		MaterialId: uuid.New(),
		Variant:    "klingon",
		Title:      "x",
	})

	assert.Equal(t, store.VariantOriginal, back.Variant)
}
