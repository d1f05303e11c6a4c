package entity

import (
	"time"

	"github.com/google/uuid"
)

// Generation is the history record of a single Generate call.
type Generation struct {
	ID               string           `json:"id" bson:"id"`
	Description      string           `json:"description" bson:"description"`
	Language         Language         `json:"language" bson:"language"`
	Platform         Platform         `json:"platform" bson:"platform"`
	DeploymentTarget DeploymentTarget `json:"deployment_target,omitempty" bson:"deployment_target,omitempty"`
	Source           ResultSource     `json:"source" bson:"source"`
	Content          string           `json:"content" bson:"content"`
	FilePath         string           `json:"file_path" bson:"file_path"`
	CreatedAt        time.Time        `json:"created_at" bson:"created_at"`
}

func NewGeneration(req PipelineRequest, res PipelineResult) *Generation {
	return &Generation{
		ID:               uuid.New().String(),
		Description:      req.Description,
		Language:         res.Language,
		Platform:         res.Platform,
		DeploymentTarget: req.DeploymentTarget,
		Source:           res.Source,
		Content:          res.Content,
		FilePath:         res.FilePath,
		CreatedAt:        time.Now().UTC(),
	}
}

func (g *Generation) IsFallback() bool {
	return g.Source == SourceFallback
}
