package config

import (
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "gemini-test-key")
	t.Setenv("OPENAI_API_KEY", "openai-test-key")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.GetPort() != 8080 {
		t.Errorf("expected GetPort 8080, got %d", cfg.GetPort())
	}
	if cfg.TranscriptLang != "fr" {
		t.Errorf("expected default transcript language fr, got %s", cfg.TranscriptLang)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("unexpected default Gemini model: %s", cfg.GeminiModel)
	}
	if cfg.HasTelegramConfig() {
		t.Error("expected Telegram config to be absent")
	}
	if cfg.HasVeraConfig() {
		t.Error("expected Vera config to be absent")
	}
}

func TestLoadConfigMissingGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "openai-test-key")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when GEMINI_API_KEY is missing")
	}
}

func TestLoadConfigMissingOpenAIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-test-key")
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when OPENAI_API_KEY is missing")
	}
}

func TestLoadConfigInvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "not-a-port")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestHasVeraConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("VERA_API_URL", "https://vera.example.com/api/chat")
	t.Setenv("VERA_API_KEY", "vera-test-key")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.HasVeraConfig() {
		t.Error("expected Vera config to be present")
	}
	if cfg.VeraUserID != "fact-check-assistant" {
		t.Errorf("unexpected default Vera user id: %s", cfg.VeraUserID)
	}
}
