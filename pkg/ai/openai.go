package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OpenAIConfig defines configuration options for the OpenAI structurer.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// OpenAIStructurer implements Structurer against the OpenAI chat completion
// API. It only handles the text-only restructuring pass; the review pass
// needs document upload, which stays on Gemini.
type OpenAIStructurer struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIStructurer builds a new structurer using the provided configuration.
func NewOpenAIStructurer(cfg OpenAIConfig) (*OpenAIStructurer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}

	return &OpenAIStructurer{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/edumate/paper-grader/pkg/ai/openai"),
		logger: cfg.Logger.With().Str("component", "openai").Logger(),
	}, nil
}

// Structure sends the restructuring request with the JSON object response format.
func (s *OpenAIStructurer) Structure(parent context.Context, reviewText string) (string, error) {
	ctx, span := s.tracer.Start(parent, "openai.structure", trace.WithAttributes(
		attribute.String("model", s.cfg.Model),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: structurePrompt(reviewText),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	aiDuration.WithLabelValues("openai", "structure").Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues("openai", "structure").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("openai structure: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues("openai", "structure").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
