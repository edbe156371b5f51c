package service

import "errors"

// Pipeline error kinds. Every failure returned by GradingService.Process
// wraps exactly one of these, so handlers and metrics can classify it with
// errors.Is.
var (
	// ErrDownload indicates the document could not be fetched from its URL.
	ErrDownload = errors.New("download failed")
	// ErrService indicates an AI service call (upload or generation) failed.
	ErrService = errors.New("ai service call failed")
	// ErrParse indicates the structuring response was malformed or
	// incompatible with the grading schema.
	ErrParse = errors.New("failed to parse ai response")
	// ErrInternal covers any other fault inside the pipeline.
	ErrInternal = errors.New("internal error")
)

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrDownload):
		return "download"
	case errors.Is(err, ErrService):
		return "service"
	case errors.Is(err, ErrParse):
		return "parse"
	default:
		return "internal"
	}
}

func isKinded(err error) bool {
	return errors.Is(err, ErrDownload) || errors.Is(err, ErrService) || errors.Is(err, ErrParse) || errors.Is(err, ErrInternal)
}
