package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type fetcherStub struct {
	doc Document
	err error
}

func (f *fetcherStub) Acquire(_ context.Context, _ string) (Document, error) {
	return f.doc, f.err
}

type reviewerStub struct {
	review string
	err    error
	panics bool
	calls  int
}

func (r *reviewerStub) Review(_ context.Context, _ string) (string, error) {
	r.calls++
	if r.panics {
		panic("reviewer blew up")
	}
	return r.review, r.err
}

type structurerStub struct {
	raw   string
	err   error
	calls int
}

func (s *structurerStub) Structure(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.raw, s.err
}

func tempPaper(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "paper-*.pdf")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestProcessSuccess(t *testing.T) {
	fetcher := &fetcherStub{doc: Document{Path: tempPaper(t), DisplayName: "essay.pdf", temp: true}}
	reviewer := &reviewerStub{review: "a thoughtful review"}
	structurer := &structurerStub{raw: `[
		{"Name": "first", "marks": 80, "remarks": ["ok"], "suggestions": [], "errors": []},
		{"Name": "second", "marks": "70", "remarks": [], "suggestions": ["tighten"], "errors": []}
	]`}

	svc := NewGradingService(fetcher, reviewer, structurer, testLogger())

	results, err := svc.Process(context.Background(), "https://papers.test/essay.pdf")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "first", results[0].Name)
	require.Equal(t, 80, results[0].Marks)
	require.Equal(t, 70, results[1].Marks)

	require.Equal(t, 1, reviewer.calls)
	require.Equal(t, 1, structurer.calls)

	_, statErr := os.Stat(fetcher.doc.Path)
	require.True(t, os.IsNotExist(statErr), "temp file should be removed after grading")
}

func TestProcessDownloadFailureSkipsLaterStages(t *testing.T) {
	fetcher := &fetcherStub{err: fmt.Errorf("%w: status 404", ErrDownload)}
	reviewer := &reviewerStub{}
	structurer := &structurerStub{}

	svc := NewGradingService(fetcher, reviewer, structurer, testLogger())

	_, err := svc.Process(context.Background(), "https://papers.test/missing.pdf")
	require.ErrorIs(t, err, ErrDownload)
	require.Zero(t, reviewer.calls)
	require.Zero(t, structurer.calls)
}

func TestProcessReviewFailureCleansUp(t *testing.T) {
	path := tempPaper(t)
	fetcher := &fetcherStub{doc: Document{Path: path, temp: true}}
	reviewer := &reviewerStub{err: errors.New("model unavailable")}
	structurer := &structurerStub{}

	svc := NewGradingService(fetcher, reviewer, structurer, testLogger())

	_, err := svc.Process(context.Background(), "https://papers.test/essay.pdf")
	require.ErrorIs(t, err, ErrService)
	require.Zero(t, structurer.calls)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "temp file should be removed on review failure")
}

func TestProcessStructureFailure(t *testing.T) {
	fetcher := &fetcherStub{doc: Document{Path: tempPaper(t), temp: true}}
	reviewer := &reviewerStub{review: "fine"}
	structurer := &structurerStub{err: errors.New("rate limited")}

	svc := NewGradingService(fetcher, reviewer, structurer, testLogger())

	_, err := svc.Process(context.Background(), "https://papers.test/essay.pdf")
	require.ErrorIs(t, err, ErrService)
}

func TestProcessParseFailure(t *testing.T) {
	fetcher := &fetcherStub{doc: Document{Path: tempPaper(t), temp: true}}
	reviewer := &reviewerStub{review: "fine"}
	structurer := &structurerStub{raw: "this is not json at all"}

	svc := NewGradingService(fetcher, reviewer, structurer, testLogger())

	_, err := svc.Process(context.Background(), "https://papers.test/essay.pdf")
	require.ErrorIs(t, err, ErrParse)
}

func TestProcessRecoversPanics(t *testing.T) {
	path := tempPaper(t)
	fetcher := &fetcherStub{doc: Document{Path: path, temp: true}}
	reviewer := &reviewerStub{panics: true}
	structurer := &structurerStub{}

	svc := NewGradingService(fetcher, reviewer, structurer, testLogger())

	_, err := svc.Process(context.Background(), "https://papers.test/essay.pdf")
	require.ErrorIs(t, err, ErrInternal)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "temp file should be removed even on panic")
}

func TestProcessWrapsUnclassifiedErrors(t *testing.T) {
	fetcher := &fetcherStub{err: errors.New("disk full")}

	svc := NewGradingService(fetcher, &reviewerStub{}, &structurerStub{}, testLogger())

	_, err := svc.Process(context.Background(), "https://papers.test/essay.pdf")
	require.ErrorIs(t, err, ErrInternal)
}
