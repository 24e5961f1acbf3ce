package bootstrap

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"ai-studymate-be/internal/config"
	"ai-studymate-be/internal/controller"
	"ai-studymate-be/internal/pkg/logger"
	"ai-studymate-be/internal/repository/unitofwork"
	"ai-studymate-be/internal/service"
	"ai-studymate-be/pkg/embedding"
	"ai-studymate-be/pkg/embedding/jina"
	"ai-studymate-be/pkg/llm/factory"
	"ai-studymate-be/pkg/rag"
	"ai-studymate-be/pkg/rag/search"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	MaterialController controller.IMaterialController
	ChatController     controller.IChatController

	// Shared infrastructure
	SysLogger logger.ILogger
	Engine    *rag.Engine
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	aiTimeout := time.Duration(cfg.Ai.TimeoutSeconds) * time.Second

	// 2. AI Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
			aiTimeout,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina, aiTimeout)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, aiTimeout)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
		aiTimeout,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3. Retrieval Engine
	engine := rag.NewEngine(embeddingProvider, llmProvider, rag.Config{
		Retrieval: search.Config{
			Threshold: cfg.Rag.ScoreThreshold,
			TopK:      cfg.Rag.TopK,
		},
		ChunkSize:     cfg.Rag.ChunkSize,
		ExcerptLength: cfg.Rag.ExcerptLength,
		HistoryTurns:  cfg.Rag.HistoryTurns,
		EmbedMaxTries: uint(cfg.Rag.EmbedMaxTries),
	}, initRagLogger())

	// 4. Services
	materialService := service.NewMaterialService(uowFactory, engine, sysLogger)
	chatService := service.NewChatService(uowFactory, engine, sysLogger)

	// 5. Controllers
	return &Container{
		MaterialController: controller.NewMaterialController(materialService),
		ChatController:     controller.NewChatController(chatService),

		SysLogger: sysLogger,
		Engine:    engine,
	}
}

// initRagLogger writes retrieval pipeline diagnostics to a dedicated file so
// the main log stays readable.
func initRagLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
