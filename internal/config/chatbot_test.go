package config

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func TestLoadChatbotConfigDefaults(t *testing.T) {
	cfg, err := LoadChatbotConfig(NewValidator())
	if err != nil {
		t.Fatalf("LoadChatbotConfig: %v", err)
	}

	if cfg.BaseURL != "https://israorganizasyon.com" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL)
	}
	if len(cfg.Cities) != 9 || cfg.Cities[1] != "Niğde" {
		t.Fatalf("Cities = %v", cfg.Cities)
	}
	if cfg.SessionBackend != SessionBackendMemory || cfg.AIProvider != AIProviderNone {
		t.Fatalf("backend = %q provider = %q", cfg.SessionBackend, cfg.AIProvider)
	}
	if cfg.SessionTTL != 30*time.Minute || cfg.HandoffTTL != time.Hour {
		t.Fatalf("SessionTTL = %v HandoffTTL = %v", cfg.SessionTTL, cfg.HandoffTTL)
	}
}

func TestLoadChatbotConfigOverrides(t *testing.T) {
	t.Setenv("CHATBOT_CITIES", "Adana,Mersin")
	t.Setenv("CHATBOT_SESSION_BACKEND", "redis")
	t.Setenv("CHATBOT_RULES_SOURCE", "sheets://abc/Sheet1!A:C")
	t.Setenv("CHATBOT_LINKS_SOURCE", "s3://bucket/links.txt")
	t.Setenv("CHATBOT_AI_PROVIDER", "gemini")

	cfg, err := LoadChatbotConfig(NewValidator())
	if err != nil {
		t.Fatalf("LoadChatbotConfig: %v", err)
	}
	if len(cfg.Cities) != 2 || cfg.SessionBackend != SessionBackendRedis || cfg.AIProvider != AIProviderGemini {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !cfg.UsesS3() || !cfg.UsesSheets() {
		t.Fatalf("UsesS3 = %v UsesSheets = %v", cfg.UsesS3(), cfg.UsesSheets())
	}
}

func TestLoadChatbotConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "backend", key: "CHATBOT_SESSION_BACKEND", value: "memcached"},
		{name: "provider", key: "CHATBOT_AI_PROVIDER", value: "claude"},
		{name: "ttl", key: "CHATBOT_SESSION_TTL", value: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadChatbotConfig(NewValidator()); err == nil {
				t.Fatalf("expected an error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestFiberErrorHandler(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	app := NewFiber(log)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
