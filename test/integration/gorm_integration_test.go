package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-studymate-be/internal/entity"
	"ai-studymate-be/internal/repository/specification"
	"ai-studymate-be/internal/repository/unitofwork"
	"ai-studymate-be/pkg/database"
	"ai-studymate-be/pkg/store"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.MaterialRepository())
	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.ChatMessageRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Material Repository", func(t *testing.T) {
		count, err := uow.MaterialRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Material count: %d", count)
	})

	t.Run("Check Transactional Chat Roundtrip", func(t *testing.T) {
		ctx := context.Background()

		material := &entity.Material{
			Id:        uuid.New(),
			Title:     "Integration Material " + uuid.New().String(),
			Content:   "The mitochondria is the powerhouse of the cell.",
			CreatedAt: time.Now(),
		}
		err := uow.MaterialRepository().Create(ctx, material)
		assert.NoError(t, err)

		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		session := &entity.ChatSession{
			Id:         uuid.New(),
			MaterialId: material.Id,
			Variant:    store.VariantOriginal,
			Title:      "Integration session",
			CreatedAt:  time.Now(),
		}
		err = uow.ChatSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		message := &entity.ChatMessage{
			Id:            uuid.New(),
			Chat:          "What produces energy in the cell?",
			Role:          "user",
			ChatSessionId: session.Id,
			References: []store.Reference{
				{Ordinal: 0, Score: 0.91, Excerpt: "The mitochondria is the powerhouse"},
			},
			CreatedAt: time.Now(),
		}
		err = uow.ChatMessageRepository().Create(ctx, message)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// References survive the JSON roundtrip
		stored, err := uow.ChatMessageRepository().FindAll(ctx,
			specification.ByChatSessionID{ChatSessionID: session.Id},
		)
		assert.NoError(t, err)
		if assert.Len(t, stored, 1) {
			assert.Len(t, stored[0].References, 1)
			assert.Equal(t, 0.91, stored[0].References[0].Score)
		}

		// Cleanup
		assert.NoError(t, uow.ChatMessageRepository().DeleteBySessionId(ctx, session.Id))
		assert.NoError(t, uow.ChatSessionRepository().Delete(ctx, session.Id))
		assert.NoError(t, uow.MaterialRepository().Delete(ctx, material.Id))
	})
}
