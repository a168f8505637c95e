package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	Port string

	// Gemini powers OCR, video transcription and search-grounded summaries
	GeminiAPIKey string
	GeminiModel  string

	// OpenAI powers question reformulation
	OpenAIAPIKey string

	// YouTube Data API key for video metadata (optional)
	YouTubeAPIKey string

	// Caption endpoint and preferred caption language
	TranscriptAPIURL string
	TranscriptLang   string

	// Vera fact-checking backend
	VeraAPIURL string
	VeraAPIKey string
	VeraUserID string

	// Telegram bot credentials (optional, webhook disabled without them)
	TelegramBotToken string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*AppConfig, error) {
	// Attempt to load .env file. If it doesn't exist, that's fine,
	// environment variables can still be used.
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Info: Could not load .env file: %v (this is ok if using environment variables)\n", err)
	}

	config := &AppConfig{
		Port:             getEnv("PORT", "8080"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		YouTubeAPIKey:    os.Getenv("YOUTUBE_API_KEY"),
		TranscriptAPIURL: getEnv("TRANSCRIPT_API_URL", "https://tactiq-apps-prod.tactiq.io/transcript"),
		TranscriptLang:   getEnv("TRANSCRIPT_LANG", "fr"),
		VeraAPIURL:       os.Getenv("VERA_API_URL"),
		VeraAPIKey:       os.Getenv("VERA_API_KEY"),
		VeraUserID:       getEnv("VERA_USER_ID", "fact-check-assistant"),
		TelegramBotToken: os.Getenv("TG_BOT_TOKEN"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid
func (c *AppConfig) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port number: %s", c.Port)
	}

	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required (media extraction and link summaries)")
	}

	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required (question reformulation)")
	}

	// Warn about missing optional configurations
	if c.YouTubeAPIKey == "" {
		fmt.Println("Warning: YOUTUBE_API_KEY not set - video titles and channel names will be omitted")
	}

	if c.VeraAPIURL == "" || c.VeraAPIKey == "" {
		fmt.Println("Warning: Vera API credentials not set - answers will not stream")
	}

	if c.TelegramBotToken == "" {
		fmt.Println("Warning: TG_BOT_TOKEN not set - Telegram webhook will be disabled")
	}

	return nil
}

// GetPort returns the port as an integer
func (c *AppConfig) GetPort() int {
	port, _ := strconv.Atoi(c.Port) // Already validated in Validate()
	return port
}

// HasYouTubeConfig returns true if a YouTube Data API key is available
func (c *AppConfig) HasYouTubeConfig() bool {
	return c.YouTubeAPIKey != ""
}

// HasTelegramConfig returns true if the Telegram bot token is available
func (c *AppConfig) HasTelegramConfig() bool {
	return c.TelegramBotToken != ""
}

// HasVeraConfig returns true if the Vera backend is fully configured
func (c *AppConfig) HasVeraConfig() bool {
	return c.VeraAPIURL != "" && c.VeraAPIKey != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
