package utils_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/edumate/paper-grader/internal/utils"
)

func performRequest(t *testing.T, handler fiber.Handler) *http.Response {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) utils.APIResponse {
	t.Helper()
	defer resp.Body.Close()

	var out utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSendSuccess(t *testing.T) {
	resp := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "done", fiber.Map{"id": 1})
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	require.True(t, body.Success)
	require.Equal(t, "done", body.Message)
	require.NotNil(t, body.Data)
}

func TestSendSuccessDefaultMessage(t *testing.T) {
	resp := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "", nil)
	})

	body := decode(t, resp)
	require.Equal(t, "success", body.Message)
}

func TestSendError(t *testing.T) {
	resp := performRequest(t, func(c *fiber.Ctx) error {
		return utils.SendError(c, http.StatusBadRequest, "bad input")
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode(t, resp)
	require.False(t, body.Success)
	require.Equal(t, "bad input", body.Message)
	require.Nil(t, body.Data)
}
