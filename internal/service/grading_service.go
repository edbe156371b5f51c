package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/edumate/paper-grader/internal/dto"
	"github.com/edumate/paper-grader/internal/observability"
	"github.com/edumate/paper-grader/pkg/ai"
)

// GradingService runs the full grading pipeline for one paper reference.
type GradingService interface {
	Process(ctx context.Context, reference string) ([]dto.GradingResult, error)
}

type gradingService struct {
	fetcher    DocumentFetcher
	reviewer   ai.Reviewer
	structurer ai.Structurer
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewGradingService constructs the pipeline orchestrator.
func NewGradingService(fetcher DocumentFetcher, reviewer ai.Reviewer, structurer ai.Structurer, logger zerolog.Logger) GradingService {
	return &gradingService{
		fetcher:    fetcher,
		reviewer:   reviewer,
		structurer: structurer,
		logger:     logger.With().Str("component", "grading_service").Logger(),
		tracer:     otel.Tracer("github.com/edumate/paper-grader/internal/service/grading"),
	}
}

// Process acquires the paper, runs the two-pass review, and normalizes the
// output. The first failing stage wins and later stages are skipped. The
// temp file, when one was created, is released on every exit path, and no
// fault escapes to the caller unclassified.
func (s *gradingService) Process(ctx context.Context, reference string) (results []dto.GradingResult, err error) {
	ctx, span := s.tracer.Start(ctx, "grading.process")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
		if err != nil {
			if !isKinded(err) {
				err = fmt.Errorf("%w: %v", ErrInternal, err)
			}
			observability.PipelineFailures().WithLabelValues(errorKind(err)).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	doc, err := s.acquire(ctx, reference)
	if err != nil {
		return nil, err
	}
	defer doc.Cleanup(s.logger)

	span.SetAttributes(attribute.String("paper.display_name", doc.DisplayName))

	review, err := s.review(ctx, doc)
	if err != nil {
		return nil, err
	}

	results, err = s.structure(ctx, review)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("reference", reference).Int("results", len(results)).Msg("paper graded")
	return results, nil
}

func (s *gradingService) acquire(ctx context.Context, reference string) (Document, error) {
	start := time.Now()
	doc, err := s.fetcher.Acquire(ctx, reference)
	observability.PipelineStage().WithLabelValues("fetch").Observe(time.Since(start).Seconds())
	return doc, err
}

func (s *gradingService) review(ctx context.Context, doc Document) (string, error) {
	start := time.Now()
	review, err := s.reviewer.Review(ctx, doc.Path)
	observability.PipelineStage().WithLabelValues("review").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrService, err)
	}
	return review, nil
}

func (s *gradingService) structure(ctx context.Context, review string) ([]dto.GradingResult, error) {
	start := time.Now()
	raw, err := s.structurer.Structure(ctx, review)
	observability.PipelineStage().WithLabelValues("structure").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}

	return normalizeResults(raw)
}
