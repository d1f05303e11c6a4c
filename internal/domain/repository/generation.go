package repository

import (
	"context"
	"errors"
	"pipelineai/internal/domain/entity"
)

var ErrGenerationNotFound = errors.New("generation not found")

// GenerationRepository определяет интерфейс доступа к истории генераций.
type GenerationRepository interface {
	Create(ctx context.Context, g *entity.Generation) error
	GetByID(ctx context.Context, id string) (*entity.Generation, error)
	List(ctx context.Context) ([]*entity.Generation, error)
	ListByPlatform(ctx context.Context, platform entity.Platform) ([]*entity.Generation, error)
	Delete(ctx context.Context, id string) error
	CountBySource(ctx context.Context, source entity.ResultSource) (int, error)
}
