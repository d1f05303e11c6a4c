package usecase

import (
	"context"
	"fmt"

	"pipelineai/internal/domain/entity"
	"pipelineai/internal/domain/repository"
)

type HistoryUsecase interface {
	Record(ctx context.Context, req entity.PipelineRequest, res entity.PipelineResult) (*entity.Generation, error)
	Get(ctx context.Context, id string) (*entity.Generation, error)
	List(ctx context.Context) ([]*entity.Generation, error)
	ListByPlatform(ctx context.Context, platform entity.Platform) ([]*entity.Generation, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (HistoryStats, error)
}

var (
	_ HistoryUsecase = (*HistoryService)(nil)
	_ Recorder       = (*HistoryService)(nil)
)

type HistoryStats struct {
	LLM      int `json:"llm"`
	Fallback int `json:"fallback"`
}

type HistoryService struct {
	repo repository.GenerationRepository
}

func NewHistoryService(repo repository.GenerationRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

func (s *HistoryService) Record(ctx context.Context, req entity.PipelineRequest, res entity.PipelineResult) (*entity.Generation, error) {
	g := entity.NewGeneration(req, res)
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create generation: %w", err)
	}
	return g, nil
}

func (s *HistoryService) Get(ctx context.Context, id string) (*entity.Generation, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get generation %s: %w", id, err)
	}
	return g, nil
}

func (s *HistoryService) List(ctx context.Context) ([]*entity.Generation, error) {
	return s.repo.List(ctx)
}

func (s *HistoryService) ListByPlatform(ctx context.Context, platform entity.Platform) ([]*entity.Generation, error) {
	if platform == "" {
		return s.repo.List(ctx)
	}
	return s.repo.ListByPlatform(ctx, platform)
}

func (s *HistoryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete generation %s: %w", id, err)
	}
	return nil
}

func (s *HistoryService) Stats(ctx context.Context) (HistoryStats, error) {
	llmCount, err := s.repo.CountBySource(ctx, entity.SourceLLM)
	if err != nil {
		return HistoryStats{}, fmt.Errorf("count llm generations: %w", err)
	}
	fallbackCount, err := s.repo.CountBySource(ctx, entity.SourceFallback)
	if err != nil {
		return HistoryStats{}, fmt.Errorf("count fallback generations: %w", err)
	}
	return HistoryStats{LLM: llmCount, Fallback: fallbackCount}, nil
}
