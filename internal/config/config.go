package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the grading API.
type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	GeminiAPIKey string
	GeminiModel  string

	// Structurer selects the backend for the JSON restructuring pass.
	// The document review pass always runs on Gemini, which is the only
	// configured backend that accepts file uploads.
	Structurer   string
	OpenAIAPIKey string
	OpenAIModel  string

	DownloadTimeout time.Duration
	AITimeout       time.Duration

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	MaxUploadMB            int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// UploadEnabled reports whether Cloudinary hosting is configured.
func (c Config) UploadEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GRADER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Paper Grader API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "5001")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("structurer", "gemini")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("download.timeout", "30s")
	v.SetDefault("ai.timeout", "120s")
	v.SetDefault("cloudinary.folder", "edumate/papers")
	v.SetDefault("max_upload_mb", 10)

	downloadTimeout, err := time.ParseDuration(v.GetString("download.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid download timeout: %w", err)
	}

	aiTimeout, err := time.ParseDuration(v.GetString("ai.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ai timeout: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		GeminiAPIKey:           v.GetString("gemini.api_key"),
		GeminiModel:            v.GetString("gemini.model"),
		Structurer:             strings.ToLower(v.GetString("structurer")),
		OpenAIAPIKey:           v.GetString("openai.api_key"),
		OpenAIModel:            v.GetString("openai.model"),
		DownloadTimeout:        downloadTimeout,
		AITimeout:              aiTimeout,
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		MaxUploadMB:            v.GetInt("max_upload_mb"),
	}

	if cfg.GeminiAPIKey == "" {
		return Config{}, fmt.Errorf("gemini api key must be provided")
	}

	if cfg.Structurer == "openai" && cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("openai api key must be provided when structurer is openai")
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 10
	}

	return cfg, nil
}
