package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Document is a locally readable paper resolved from a reference. When the
// reference was a URL the underlying file is a request-scoped temp file that
// the caller must release through Cleanup.
type Document struct {
	Path        string
	DisplayName string
	temp        bool
}

// Cleanup removes the temp file if one was created. Removal failures are
// logged and swallowed; they never override the request outcome.
func (d Document) Cleanup(logger zerolog.Logger) {
	if !d.temp {
		return
	}
	if err := os.Remove(d.Path); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("path", d.Path).Msg("failed to remove temp file")
	}
}

// DocumentFetcher resolves a paper reference (URL or local path) to a local file.
type DocumentFetcher interface {
	Acquire(ctx context.Context, reference string) (Document, error)
}

type documentFetcher struct {
	client *http.Client
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewDocumentFetcher constructs a fetcher whose downloads are bounded by the
// given timeout.
func NewDocumentFetcher(timeout time.Duration, logger zerolog.Logger) DocumentFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &documentFetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "document_fetcher").Logger(),
		tracer: otel.Tracer("github.com/edumate/paper-grader/internal/service/fetcher"),
	}
}

func (f *documentFetcher) Acquire(ctx context.Context, reference string) (Document, error) {
	if strings.HasPrefix(reference, "http://") || strings.HasPrefix(reference, "https://") {
		return f.download(ctx, reference)
	}

	// Anything else is treated as an already-accessible local path.
	return Document{Path: reference}, nil
}

func (f *documentFetcher) download(ctx context.Context, rawURL string) (Document, error) {
	ctx, span := f.tracer.Start(ctx, "fetcher.download")
	defer span.End()

	name := trailingSegment(rawURL)
	span.SetAttributes(attribute.String("fetch.display_name", name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad request url")
		return Document{}, fmt.Errorf("%w: %v", ErrDownload, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		return Document{}, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err := fmt.Errorf("%w: status %d fetching %s", ErrDownload, resp.StatusCode, name)
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad status")
		return Document{}, err
	}

	tmp, err := os.CreateTemp("", "paper-*"+filepath.Ext(name))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "temp file")
		return Document{}, fmt.Errorf("create temp file: %w", err)
	}

	size, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		if removeErr := os.Remove(tmp.Name()); removeErr != nil {
			f.logger.Warn().Err(removeErr).Msg("failed to remove partial download")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		return Document{}, fmt.Errorf("%w: %v", ErrDownload, err)
	}

	span.SetAttributes(attribute.Int64("fetch.size_bytes", size))
	f.logger.Debug().Str("name", name).Int64("size_bytes", size).Msg("paper downloaded")

	return Document{Path: tmp.Name(), DisplayName: name, temp: true}, nil
}

// trailingSegment extracts the last path segment of the URL, keeping query
// strings out of the temp-file suffix.
func trailingSegment(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
		return ""
	}
	parts := strings.Split(rawURL, "/")
	return parts[len(parts)-1]
}
