package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/edumate/paper-grader/internal/dto"
	"github.com/edumate/paper-grader/internal/observability"
)

var (
	// ErrUploadTooLarge indicates the paper exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the sniffed MIME type is not a paper format.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
)

// FileStorage abstracts the paper hosting destination.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// UploadService validates and hosts papers so they can later be graded by URL.
type UploadService interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (dto.UploadResponse, error)
}

type uploadService struct {
	storage FileStorage
	logger  zerolog.Logger
	maxSize int64
	tracer  trace.Tracer
}

// NewUploadService constructs an upload service.
func NewUploadService(storage FileStorage, maxSizeMB int, logger zerolog.Logger) UploadService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &uploadService{
		storage: storage,
		logger:  logger.With().Str("component", "upload_service").Logger(),
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		tracer:  otel.Tracer("github.com/edumate/paper-grader/internal/service/upload"),
	}
}

func (s *uploadService) Upload(ctx context.Context, file *multipart.FileHeader) (dto.UploadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "upload.store")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.UploadLatency().Observe(time.Since(start).Seconds())
	}()

	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.UploadResponse{}, err
	}

	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.UploadResponse{}, ErrUploadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.UploadResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.UploadResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.UploadResponse{}, ErrUploadTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	fileType := normalizeMime(mime.String())
	span.SetAttributes(attribute.String("upload.detected_mime", fileType))
	if !isAllowedType(fileType) {
		observability.UploadRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrUploadTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.UploadResponse{}, ErrUploadTypeNotAllowed
	}

	checksum := sha256.Sum256(buf.Bytes())
	sanitizedName := sanitizeFileName(file.Filename)

	url, err := s.storage.Upload(ctx, sanitizedName, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.UploadRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.UploadResponse{}, err
	}

	observability.UploadRequests().WithLabelValues(fileType).Inc()
	span.SetStatus(codes.Ok, "stored")

	return dto.UploadResponse{
		URL:       url,
		FileName:  sanitizedName,
		MimeType:  fileType,
		SizeBytes: int64(buf.Len()),
		Checksum:  hex.EncodeToString(checksum[:]),
	}, nil
}

func sanitizeFileName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ToLower(base)
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = fmt.Sprintf("paper-%d", time.Now().Unix())
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = ".bin"
	}
	return base + ext
}

func normalizeMime(m string) string {
	lower := strings.ToLower(strings.TrimSpace(m))
	if strings.HasPrefix(lower, "image/") {
		return "image"
	}
	return lower
}

// Papers arrive as PDFs or scans; everything else is rejected.
func isAllowedType(m string) bool {
	return m == "image" || m == "application/pdf"
}
