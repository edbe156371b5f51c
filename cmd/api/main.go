package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/edumate/paper-grader/internal/config"
	"github.com/edumate/paper-grader/internal/handler"
	"github.com/edumate/paper-grader/internal/middleware"
	"github.com/edumate/paper-grader/internal/router"
	"github.com/edumate/paper-grader/internal/service"
	"github.com/edumate/paper-grader/pkg/ai"
	cloud "github.com/edumate/paper-grader/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	gemini, err := ai.NewGeminiClient(ai.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.AITimeout,
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("failed to create gemini client: %v", err)
	}

	var structurer ai.Structurer = gemini
	if cfg.Structurer == "openai" {
		structurer, err = ai.NewOpenAIStructurer(ai.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.AITimeout,
			Logger:  logger,
		})
		if err != nil {
			log.Fatalf("failed to create openai structurer: %v", err)
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	fetcher := service.NewDocumentFetcher(cfg.DownloadTimeout, logger)
	gradingService := service.NewGradingService(fetcher, gemini, structurer, logger)
	gradeHandler := handler.NewGradeHandler(gradingService, validate, logger)

	var uploadHandler *handler.UploadHandler
	if cfg.UploadEnabled() {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}

		uploadService := service.NewUploadService(uploader, cfg.MaxUploadMB, logger)
		uploadHandler = handler.NewUploadHandler(uploadService, logger)
	} else {
		logger.Info().Msg("cloudinary not configured, paper hosting disabled")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		GradeHandler:  gradeHandler,
		UploadHandler: uploadHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
