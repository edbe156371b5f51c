package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edumate/paper-grader/internal/config"
	"github.com/edumate/paper-grader/internal/handler"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	GradeHandler  *handler.GradeHandler
	UploadHandler *handler.UploadHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// POST /grade lives at the root: its path and wire format are part of
	// the contract inherited from the original service.
	if deps.GradeHandler != nil {
		deps.GradeHandler.Register(app)
	}

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Paper hosting is only offered when Cloudinary is configured.
	if deps.UploadHandler != nil {
		deps.UploadHandler.Register(api.Group("/papers/upload"))
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
