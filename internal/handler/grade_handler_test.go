package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edumate/paper-grader/internal/dto"
	"github.com/edumate/paper-grader/internal/handler"
)

type gradingServiceStub struct {
	results []dto.GradingResult
	err     error
	gotRef  string
	calls   int
}

func (s *gradingServiceStub) Process(_ context.Context, reference string) ([]dto.GradingResult, error) {
	s.calls++
	s.gotRef = reference
	return s.results, s.err
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func newGradeApp(stub *gradingServiceStub) *fiber.App {
	app := fiber.New()
	h := handler.NewGradeHandler(stub, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	h.Register(app)
	return app
}

func postGrade(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/grade", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestGradeSuccessReturnsBareArray(t *testing.T) {
	stub := &gradingServiceStub{results: []dto.GradingResult{
		{Name: "Roll 7", Marks: 85, Remarks: []string{"clear argument"}, Suggestions: []string{}, Errors: []string{}},
	}}
	app := newGradeApp(stub)

	resp := postGrade(t, app, `{"file_url": "https://papers.test/essay.pdf"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var results []map[string]interface{}
	decodeBody(t, resp, &results)
	require.Len(t, results, 1)
	require.Equal(t, "Roll 7", results[0]["Name"])
	require.Equal(t, float64(85), results[0]["marks"])

	require.Equal(t, "https://papers.test/essay.pdf", stub.gotRef)
}

func TestGradeMissingFileURL(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "empty_object", body: `{}`},
		{name: "empty_value", body: `{"file_url": ""}`},
		{name: "whitespace_value", body: `{"file_url": "   "}`},
		{name: "malformed_json", body: `{"file_url": `},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &gradingServiceStub{}
			app := newGradeApp(stub)

			resp := postGrade(t, app, tc.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errResp dto.GradeErrorResponse
			decodeBody(t, resp, &errResp)
			require.Equal(t, "File URL is required", errResp.Error)
			require.Zero(t, stub.calls, "pipeline must not run without a file URL")
		})
	}
}

func TestGradePipelineFailure(t *testing.T) {
	stub := &gradingServiceStub{err: errors.New("failed to download file: status 404")}
	app := newGradeApp(stub)

	resp := postGrade(t, app, `{"file_url": "https://papers.test/missing.pdf"}`)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var errResp dto.GradeErrorResponse
	decodeBody(t, resp, &errResp)
	require.Equal(t, "failed to download file: status 404", errResp.Error)
}

func TestGradeEmptyResultSet(t *testing.T) {
	stub := &gradingServiceStub{results: []dto.GradingResult{}}
	app := newGradeApp(stub)

	resp := postGrade(t, app, `{"file_url": "/var/papers/essay.pdf"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var results []dto.GradingResult
	decodeBody(t, resp, &results)
	require.Empty(t, results)
}
