package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"pipelineai/internal/domain/entity"
	"pipelineai/internal/domain/repository"
	"pipelineai/internal/infrastructure/metrics"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o"
)

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// BreakerThreshold is the number of consecutive failures that opens the
	// circuit. Zero disables the breaker.
	BreakerThreshold uint32
	BreakerCooldown  time.Duration
}

type OpenAIClient struct {
	client  *openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
}

var _ repository.CompletionClient = (*OpenAIClient)(nil)

func NewOpenAIClient(opts Options) *OpenAIClient {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	c := &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}

	if opts.BreakerThreshold > 0 {
		cooldown := opts.BreakerCooldown
		if cooldown <= 0 {
			cooldown = 60 * time.Second
		}
		threshold := opts.BreakerThreshold
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "llm-client",
			MaxRequests: 1,
			Timeout:     cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		})
	}

	return c
}

// Model is the model used when a request does not name one.
func (c *OpenAIClient) Model() string {
	return c.model
}

func (c *OpenAIClient) Complete(ctx context.Context, req entity.CompletionRequest) (string, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	metrics.IncLLMRequest(req.Model)
	start := time.Now()
	defer func() {
		metrics.ObserveLLMRequestDuration(req.Model, time.Since(start))
	}()

	if c.breaker == nil {
		return c.createChatCompletion(ctx, req)
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.createChatCompletion(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.IncError("llm", "circuit_open")
		}
		return "", err
	}
	return out.(string), nil
}

func (c *OpenAIClient) createChatCompletion(ctx context.Context, req entity.CompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			metrics.IncError("llm", fmt.Sprintf("api_error_%d", apiErr.HTTPStatusCode))
		} else {
			metrics.IncError("llm", "request")
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
