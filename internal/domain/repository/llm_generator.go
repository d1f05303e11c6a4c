package repository

import (
	"context"
	"pipelineai/internal/domain/entity"
)

// CompletionClient интерфейс для одного запроса к LLM
type CompletionClient interface {
	// Complete returns the text of the first choice, or "" when the response carries none.
	Complete(ctx context.Context, req entity.CompletionRequest) (string, error)
}
