package rag

import (
	"context"
	"log"
	"strings"

	"ai-studymate-be/pkg/apperror"
	"ai-studymate-be/pkg/embedding"
	"ai-studymate-be/pkg/llm"
	"ai-studymate-be/pkg/rag/chunker"
	ragcontext "ai-studymate-be/pkg/rag/context"
	"ai-studymate-be/pkg/rag/index"
	"ai-studymate-be/pkg/rag/response"
	"ai-studymate-be/pkg/rag/search"
	"ai-studymate-be/pkg/rag/session"
	"ai-studymate-be/pkg/store"
)

// Config collects the engine tunables. Zero values fall back to defaults.
type Config struct {
	Retrieval     search.Config
	ChunkSize     int
	ExcerptLength int
	// HistoryTurns bounds the user/assistant turn pairs forwarded to the
	// completion provider.
	HistoryTurns  int
	EmbedMaxTries uint
}

func DefaultConfig() Config {
	return Config{
		Retrieval:     search.DefaultConfig(),
		ChunkSize:     chunker.DefaultChunkSize,
		ExcerptLength: ragcontext.DefaultExcerptLength,
		HistoryTurns:  3,
		EmbedMaxTries: 3,
	}
}

// Answer is the result of one question against a material.
type Answer struct {
	Text       string
	References []store.Reference
}

// Engine is the retrieval-augmented context engine: it keeps per-material
// embedding indexes consistent across concurrent chats and answers questions
// from the minimal relevant context.
type Engine struct {
	coordinator  *session.Coordinator
	embedder     embedding.Provider
	retriever    *search.Retriever
	assembler    *ragcontext.Assembler
	generator    *response.Generator
	retrieval    search.Config
	historyTurns int
	logger       *log.Logger
}

func NewEngine(embedder embedding.Provider, llmProvider llm.LLMProvider, cfg Config, logger *log.Logger) *Engine {
	defaults := DefaultConfig()
	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = defaults.Retrieval.TopK
	}
	if cfg.Retrieval.Threshold <= 0 {
		cfg.Retrieval.Threshold = defaults.Retrieval.Threshold
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaults.ChunkSize
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = defaults.HistoryTurns
	}

	indexStore := index.NewStore()
	coordinator := session.NewCoordinator(indexStore, embedder, session.Config{
		ChunkSize:     cfg.ChunkSize,
		EmbedMaxTries: cfg.EmbedMaxTries,
	}, logger)

	return &Engine{
		coordinator:  coordinator,
		embedder:     embedder,
		retriever:    search.NewRetriever(logger),
		assembler:    ragcontext.NewAssembler(cfg.ExcerptLength, logger),
		generator:    response.NewGenerator(llmProvider, logger),
		retrieval:    cfg.Retrieval,
		historyTurns: cfg.HistoryTurns,
		logger:       logger,
	}
}

// EnsureReady indexes the material content for the variant, deduplicating
// concurrent initializations and skipping unchanged content.
func (e *Engine) EnsureReady(ctx context.Context, materialId string, variant store.Variant, content string) error {
	return e.coordinator.EnsureReady(ctx, materialId, variant, content)
}

// AnswerQuestion answers from the Ready index of (materialId, variant).
// EnsureReady must have succeeded first. When no chunk clears the relevance
// threshold the fixed refusal answer is returned with no references and the
// completion provider is never invoked.
func (e *Engine) AnswerQuestion(
	ctx context.Context,
	materialId string,
	variant store.Variant,
	question string,
	history []llm.Message,
) (*Answer, error) {

	if strings.TrimSpace(question) == "" {
		return nil, apperror.Validation("question is empty")
	}

	idx, err := e.coordinator.Snapshot(materialId, variant)
	if err != nil {
		return nil, err
	}

	queryVectors, err := e.embedder.EmbedBatch(ctx, []string{question}, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}

	results := e.retriever.Retrieve(queryVectors[0], idx, e.retrieval)
	contextText, references := e.assembler.Assemble(results)

	if contextText == ragcontext.NoRelevantContext {
		e.logger.Printf("[ENGINE] No relevant content for %s (%s), refusing without completion call", materialId, variant)
		return &Answer{Text: response.RefusalAnswer, References: references}, nil
	}

	answerText, err := e.generator.Generate(ctx, question, contextText, e.boundHistory(history), variant)
	if err != nil {
		return nil, err
	}

	return &Answer{Text: answerText, References: references}, nil
}

// Evict drops all indexed variants of the material.
func (e *Engine) Evict(materialId string) {
	e.coordinator.Evict(materialId)
}

func (e *Engine) boundHistory(history []llm.Message) []llm.Message {
	max := e.historyTurns * 2
	if len(history) <= max {
		return history
	}
	return history[len(history)-max:]
}
