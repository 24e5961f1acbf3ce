package service

import (
	"context"
	"strings"
	"time"

	"ai-studymate-be/internal/constant"
	"ai-studymate-be/internal/dto"
	"ai-studymate-be/internal/entity"
	"ai-studymate-be/internal/pkg/logger"
	"ai-studymate-be/internal/repository/specification"
	"ai-studymate-be/internal/repository/unitofwork"
	"ai-studymate-be/pkg/apperror"
	"ai-studymate-be/pkg/llm"
	"ai-studymate-be/pkg/rag"
	"ai-studymate-be/pkg/store"

	"github.com/google/uuid"
)

type IChatService interface {
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, req *dto.DeleteSessionRequest) error
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	engine     *rag.Engine
	sysLogger  logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	engine *rag.Engine,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		engine:     engine,
		sysLogger:  sysLogger,
	}
}

// CreateSession opens a chat session bound to one material and language variant.
func (s *chatService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	variant, err := store.ParseVariant(req.Variant)
	if err != nil {
		return nil, apperror.Validation("%v", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	material, err := uow.MaterialRepository().FindOne(ctx, specification.ByID{ID: req.MaterialId})
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, apperror.Validation("material %s not found", req.MaterialId)
	}
	if variant == store.VariantTranslated && !material.HasTranslation() {
		return nil, apperror.Validation("material %s has no translation", req.MaterialId)
	}

	now := time.Now()

	title := req.Title
	if title == "" {
		title = constant.ChatSessionDefaultTitle
	}

	chatSession := entity.ChatSession{
		Id:         uuid.New(),
		MaterialId: material.Id,
		Variant:    variant,
		Title:      title,
		CreatedAt:  now,
	}

	greeting := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          constant.ChatInitialGreeting,
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &greeting); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		Id: chatSession.Id,
	}, nil
}

func (s *chatService) GetSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, &dto.GetAllSessionsResponse{
			Id:         session.Id,
			MaterialId: session.MaterialId,
			Variant:    string(session.Variant),
			Title:      session.Title,
			CreatedAt:  session.CreatedAt,
			UpdatedAt:  session.UpdatedAt,
		})
	}

	return res, nil
}

func (s *chatService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GetChatHistoryResponse, 0, len(messages))
	for _, message := range messages {
		res = append(res, &dto.GetChatHistoryResponse{
			Id:         message.Id,
			Role:       message.Role,
			Chat:       message.Chat,
			CreatedAt:  message.CreatedAt,
			References: message.References,
		})
	}

	return res, nil
}

// SendChat answers a question in an existing session: it makes sure the
// material's index is ready for the session variant, runs the retrieval
// pipeline, and persists both turns.
func (s *chatService) SendChat(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: req.ChatSessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.Validation("chat session %s not found", req.ChatSessionId)
	}

	material, err := uow.MaterialRepository().FindOne(ctx, specification.ByID{ID: session.MaterialId})
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, apperror.Validation("material %s not found", session.MaterialId)
	}

	content, err := variantContent(material, session.Variant)
	if err != nil {
		return nil, err
	}

	materialId := material.Id.String()
	if err := s.engine.EnsureReady(ctx, materialId, session.Variant, content); err != nil {
		return nil, err
	}

	history, err := s.loadHistory(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}

	answer, err := s.engine.AnswerQuestion(ctx, materialId, session.Variant, req.Chat, history)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	sent := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          req.Chat,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: session.Id,
		CreatedAt:     now,
	}

	reply := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          answer.Text,
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: session.Id,
		References:    answer.References,
		CreatedAt:     now.Add(1 * time.Millisecond),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, &sent); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &reply); err != nil {
		return nil, err
	}

	// First real question names the session.
	if session.Title == constant.ChatSessionDefaultTitle {
		session.Title = deriveSessionTitle(req.Chat)
		session.UpdatedAt = &now
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.sysLogger.Info("chat", "Chat answered", map[string]interface{}{
		"session_id":  session.Id,
		"material_id": session.MaterialId,
		"variant":     string(session.Variant),
		"references":  len(answer.References),
	})

	return &dto.SendChatResponse{
		ChatSessionId:    session.Id,
		ChatSessionTitle: session.Title,
		Sent: &dto.SendChatResponseChat{
			Id:        sent.Id,
			Chat:      sent.Chat,
			Role:      sent.Role,
			CreatedAt: sent.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:         reply.Id,
			Chat:       reply.Chat,
			Role:       reply.Role,
			CreatedAt:  reply.CreatedAt,
			References: reply.References,
		},
	}, nil
}

func (s *chatService) DeleteSession(ctx context.Context, req *dto.DeleteSessionRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: req.ChatSessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteBySessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		return err
	}

	return uow.Commit()
}

// loadHistory maps stored turns to provider-agnostic messages, skipping the
// canned greeting. The engine bounds how much of it reaches the model.
func (s *chatService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]llm.Message, error) {
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(messages))
	for _, message := range messages {
		if message.Chat == constant.ChatInitialGreeting {
			continue
		}
		role := "user"
		if message.Role == constant.ChatMessageRoleModel {
			role = "assistant"
		}
		history = append(history, llm.Message{
			Role:    role,
			Content: message.Chat,
		})
	}

	return history, nil
}

func variantContent(material *entity.Material, variant store.Variant) (string, error) {
	if variant == store.VariantTranslated {
		if !material.HasTranslation() {
			return "", apperror.Validation("material %s has no translation", material.Id)
		}
		return material.TranslatedContent, nil
	}
	return material.Content, nil
}

func deriveSessionTitle(question string) string {
	title := strings.TrimSpace(question)
	runes := []rune(title)
	if len(runes) > 60 {
		title = string(runes[:60]) + "..."
	}
	if title == "" {
		return constant.ChatSessionDefaultTitle
	}
	return title
}
