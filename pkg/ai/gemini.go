package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/generative-ai-go/genai"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/option"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "grader",
		Subsystem: "ai",
		Name:      "call_duration_seconds",
		Help:      "Duration of AI service calls",
	}, []string{"provider", "operation"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grader",
		Subsystem: "ai",
		Name:      "call_failures_total",
		Help:      "Number of failed AI service calls",
	}, []string{"provider", "operation"})
)

// GeminiConfig defines configuration options for the Gemini client.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// GeminiClient implements Reviewer and Structurer against the Gemini API.
// The review pass uploads the paper through the Files API and references the
// uploaded handle in the generation request.
type GeminiClient struct {
	cfg    GeminiConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewGeminiClient builds a Gemini client using the provided configuration.
func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}

	return &GeminiClient{
		cfg:    cfg,
		tracer: otel.Tracer("github.com/edumate/paper-grader/pkg/ai/gemini"),
		logger: cfg.Logger.With().Str("component", "gemini").Logger(),
	}, nil
}

// Review uploads the paper and requests the first-pass quality assessment.
func (g *GeminiClient) Review(parent context.Context, localPath string) (string, error) {
	ctx, span := g.tracer.Start(parent, "gemini.review", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	start := time.Now()
	text, err := g.review(ctx, localPath)
	aiDuration.WithLabelValues("gemini", "review").Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues("gemini", "review").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("gemini review: %w", err)
	}

	return text, nil
}

func (g *GeminiClient) review(ctx context.Context, localPath string) (string, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.cfg.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	opts := &genai.UploadFileOptions{}
	if mime, err := mimetype.DetectFile(localPath); err == nil {
		opts.MIMEType = mime.String()
	}

	uploaded, err := cl.UploadFileFromPath(ctx, localPath, opts)
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}

	g.logger.Debug().Str("file_uri", uploaded.URI).Msg("paper uploaded to gemini")

	m := cl.GenerativeModel(g.cfg.Model)
	resp, err := m.GenerateContent(ctx,
		genai.FileData{URI: uploaded.URI, MIMEType: uploaded.MIMEType},
		genai.Text(reviewPrompt),
	)
	if err != nil {
		return "", err
	}

	text := firstText(resp)
	if text == "" {
		return "", fmt.Errorf("empty response")
	}

	return text, nil
}

// Structure asks Gemini to re-express the review as schema-shaped JSON,
// using the JSON-constrained response mode.
func (g *GeminiClient) Structure(parent context.Context, reviewText string) (string, error) {
	ctx, span := g.tracer.Start(parent, "gemini.structure", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	start := time.Now()
	raw, err := g.structure(ctx, reviewText)
	aiDuration.WithLabelValues("gemini", "structure").Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues("gemini", "structure").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("gemini structure: %w", err)
	}

	return raw, nil
}

func (g *GeminiClient) structure(ctx context.Context, reviewText string) (string, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.cfg.APIKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(g.cfg.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}

	resp, err := m.GenerateContent(ctx, genai.Text(structurePrompt(reviewText)))
	if err != nil {
		return "", err
	}

	raw := firstText(resp)
	if raw == "" {
		return "", fmt.Errorf("empty response")
	}

	return raw, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return strings.TrimSpace(string(t))
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
