package service

import (
	"context"
	"time"

	"ai-studymate-be/internal/dto"
	"ai-studymate-be/internal/entity"
	"ai-studymate-be/internal/pkg/logger"
	"ai-studymate-be/internal/repository/specification"
	"ai-studymate-be/internal/repository/unitofwork"
	"ai-studymate-be/pkg/rag"

	"github.com/google/uuid"
)

type IMaterialService interface {
	Create(ctx context.Context, req *dto.CreateMaterialRequest) (*dto.CreateMaterialResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowMaterialResponse, error)
	List(ctx context.Context, search string) ([]*dto.ListMaterialItem, error)
	Update(ctx context.Context, req *dto.UpdateMaterialRequest) (*dto.UpdateMaterialResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type materialService struct {
	uowFactory unitofwork.RepositoryFactory
	engine     *rag.Engine
	sysLogger  logger.ILogger
}

func NewMaterialService(
	uowFactory unitofwork.RepositoryFactory,
	engine *rag.Engine,
	sysLogger logger.ILogger,
) IMaterialService {
	return &materialService{
		uowFactory: uowFactory,
		engine:     engine,
		sysLogger:  sysLogger,
	}
}

func (s *materialService) Create(ctx context.Context, req *dto.CreateMaterialRequest) (*dto.CreateMaterialResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	material := entity.Material{
		Id:                uuid.New(),
		Title:             req.Title,
		Content:           req.Content,
		TranslatedContent: req.TranslatedContent,
		CreatedAt:         time.Now(),
	}

	if err := uow.MaterialRepository().Create(ctx, &material); err != nil {
		return nil, err
	}

	s.sysLogger.Info("material", "Material created", map[string]interface{}{
		"material_id":     material.Id,
		"content_length":  len(material.Content),
		"has_translation": material.HasTranslation(),
	})

	return &dto.CreateMaterialResponse{
		Id: material.Id,
	}, nil
}

func (s *materialService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowMaterialResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	material, err := uow.MaterialRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, nil // Not found
	}

	return &dto.ShowMaterialResponse{
		Id:                material.Id,
		Title:             material.Title,
		Content:           material.Content,
		TranslatedContent: material.TranslatedContent,
		HasTranslation:    material.HasTranslation(),
		CreatedAt:         material.CreatedAt,
		UpdatedAt:         material.UpdatedAt,
	}, nil
}

func (s *materialService) List(ctx context.Context, search string) ([]*dto.ListMaterialItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if search != "" {
		specs = append(specs, specification.MaterialSearchQuery{Query: search})
	}

	materials, err := uow.MaterialRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ListMaterialItem, 0, len(materials))
	for _, material := range materials {
		items = append(items, &dto.ListMaterialItem{
			Id:             material.Id,
			Title:          material.Title,
			HasTranslation: material.HasTranslation(),
			CreatedAt:      material.CreatedAt,
			UpdatedAt:      material.UpdatedAt,
		})
	}

	return items, nil
}

func (s *materialService) Update(ctx context.Context, req *dto.UpdateMaterialRequest) (*dto.UpdateMaterialResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	material, err := uow.MaterialRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, nil
	}

	now := time.Now()

	material.Title = req.Title
	material.Content = req.Content
	material.TranslatedContent = req.TranslatedContent
	material.UpdatedAt = &now

	if err := uow.MaterialRepository().Update(ctx, material); err != nil {
		return nil, err
	}

	// The engine detects changed content by hash on the next question, so no
	// eager re-index here.
	return &dto.UpdateMaterialResponse{
		Id: material.Id,
	}, nil
}

func (s *materialService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	material, err := uow.MaterialRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if material == nil {
		return nil
	}

	if err := uow.MaterialRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.engine.Evict(id.String())

	s.sysLogger.Info("material", "Material deleted, index evicted", map[string]interface{}{
		"material_id": id,
	})

	return nil
}
