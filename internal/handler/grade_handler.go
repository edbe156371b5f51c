package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edumate/paper-grader/internal/dto"
	"github.com/edumate/paper-grader/internal/service"
)

// missingFileURLMessage is part of the public wire contract; existing
// EduMate clients match on it verbatim.
const missingFileURLMessage = "File URL is required"

// GradeHandler exposes the grading pipeline over POST /grade.
//
// Unlike the rest of the API this endpoint does not use the APIResponse
// envelope: success is a bare JSON array of results and failure is a flat
// {"error": ...} object, preserving the contract of the original service.
type GradeHandler struct {
	service  service.GradingService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewGradeHandler constructs a grade handler.
func NewGradeHandler(service service.GradingService, validate *validator.Validate, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		service:  service,
		validate: validate,
		logger:   logger.With().Str("component", "grade_handler").Logger(),
	}
}

// Register wires the grading route.
func (h *GradeHandler) Register(router fiber.Router) {
	router.Post("/grade", h.grade)
}

func (h *GradeHandler) grade(c *fiber.Ctx) error {
	var req dto.GradeRequest
	if err := c.BodyParser(&req); err != nil {
		return sendGradeError(c, fiber.StatusBadRequest, missingFileURLMessage)
	}

	if err := h.validate.Struct(req); err != nil || strings.TrimSpace(req.FileURL) == "" {
		return sendGradeError(c, fiber.StatusBadRequest, missingFileURLMessage)
	}

	results, err := h.service.Process(c.UserContext(), req.FileURL)
	if err != nil {
		h.logger.Error().Err(err).Str("file_url", req.FileURL).Msg("grading failed")
		return sendGradeError(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusOK).JSON(results)
}

func sendGradeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.GradeErrorResponse{Error: message})
}
