package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"pipelineai/app/config"
	"pipelineai/internal/domain/entity"
	"pipelineai/internal/domain/repository"
	"pipelineai/internal/infrastructure/llm"
	"pipelineai/internal/infrastructure/metrics"
)

const (
	Temperature float32 = 0.7
	MaxTokens           = 4000
)

// Recorder is notified of every produced result.
type Recorder interface {
	Record(ctx context.Context, req entity.PipelineRequest, res entity.PipelineResult) (*entity.Generation, error)
}

type GeneratorUsecase interface {
	Generate(ctx context.Context, req entity.PipelineRequest) entity.PipelineResult
}

var _ GeneratorUsecase = (*PipelineGenerator)(nil)

type GeneratorOption func(*PipelineGenerator)

func WithModel(model string) GeneratorOption {
	return func(g *PipelineGenerator) {
		g.model = model
	}
}

func WithRecorder(r Recorder) GeneratorOption {
	return func(g *PipelineGenerator) {
		g.recorder = r
	}
}

type PipelineGenerator struct {
	llm      repository.CompletionClient
	model    string
	recorder Recorder
	logger   *slog.Logger
}

func NewPipelineGenerator(client repository.CompletionClient, logger *slog.Logger, opts ...GeneratorOption) *PipelineGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	g := &PipelineGenerator{
		llm:    client,
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewPipelineGeneratorFromConfig wires an OpenAI-compatible client from cfg.
func NewPipelineGeneratorFromConfig(cfg config.LLMConfig, logger *slog.Logger, opts ...GeneratorOption) *PipelineGenerator {
	client := llm.NewOpenAIClient(llm.Options{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		Model:            cfg.Model,
		Timeout:          cfg.Timeout,
		BreakerThreshold: cfg.BreakerThreshold,
		BreakerCooldown:  cfg.BreakerCooldown,
	})
	return NewPipelineGenerator(client, logger, append([]GeneratorOption{WithModel(cfg.Model)}, opts...)...)
}

// Generate never fails: any error from the completion call is replaced by the
// template for the resolved language and platform.
func (g *PipelineGenerator) Generate(ctx context.Context, req entity.PipelineRequest) entity.PipelineResult {
	start := time.Now()

	res, err := g.generateWithLLM(ctx, req)
	if err != nil {
		g.logger.Warn("llm generation failed, using template",
			"platform", req.ResolvedPlatform(), "language", req.ResolvedLanguage(), "err", err)
		metrics.IncFallback(string(req.ResolvedPlatform()))
		res = g.generateFallback(req)
	}

	metrics.IncGeneration(string(res.Platform), string(res.Language), string(res.Source))
	metrics.ObserveGenerationDuration(time.Since(start))

	if g.recorder != nil {
		if _, err := g.recorder.Record(ctx, req, res); err != nil {
			g.logger.Error("record generation failed", "platform", res.Platform, "err", err)
		}
	}

	return res
}

func (g *PipelineGenerator) generateWithLLM(ctx context.Context, req entity.PipelineRequest) (entity.PipelineResult, error) {
	language := req.ResolvedLanguage()
	platform := req.ResolvedPlatform()

	content, err := g.llm.Complete(ctx, entity.CompletionRequest{
		Model:       g.model,
		System:      entity.DevOpsPrompt.Text,
		User:        BuildPrompt(req),
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		return entity.PipelineResult{}, fmt.Errorf("llm complete: %w", err)
	}

	return entity.PipelineResult{
		Success:  true,
		Content:  content,
		FilePath: FilePath(platform),
		Platform: platform,
		Language: language,
		Source:   entity.SourceLLM,
	}, nil
}

// generateFallback leaves Error empty; a fallback still counts as success.
func (g *PipelineGenerator) generateFallback(req entity.PipelineRequest) entity.PipelineResult {
	language := req.ResolvedLanguage()
	platform := req.ResolvedPlatform()

	return entity.PipelineResult{
		Success:  true,
		Content:  GenerateTemplate(language, platform),
		FilePath: FilePath(platform),
		Platform: platform,
		Language: language,
		Source:   entity.SourceFallback,
	}
}

func BuildPrompt(req entity.PipelineRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a CI/CD pipeline for %s.\n", req.ResolvedPlatform())
	fmt.Fprintf(&b, "Language: %s\n", req.ResolvedLanguage())
	fmt.Fprintf(&b, "Description: %s\n", req.Description)

	if req.DeploymentTarget != "" {
		fmt.Fprintf(&b, "Deployment Target: %s\n", req.DeploymentTarget)
	}

	b.WriteString("\n" + entity.YAMLOnlyInstruction)
	return b.String()
}

var (
	defaultGeneratorOnce sync.Once
	defaultGenerator     *PipelineGenerator
)

// GeneratePipeline runs req through a generator configured from the process
// environment on first use.
func GeneratePipeline(ctx context.Context, req entity.PipelineRequest) entity.PipelineResult {
	defaultGeneratorOnce.Do(func() {
		defaultGenerator = NewPipelineGeneratorFromConfig(config.LLMFromEnv(), slog.Default())
	})
	return defaultGenerator.Generate(ctx, req)
}
