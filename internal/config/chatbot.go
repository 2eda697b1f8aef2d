package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"

	AIProviderNone   = "none"
	AIProviderGemini = "gemini"
	AIProviderOpenAI = "openai"
)

// ChatbotConfig is read from CHATBOT_* environment variables.
type ChatbotConfig struct {
	BaseURL        string        `envconfig:"BASE_URL" default:"https://israorganizasyon.com" validate:"required,url"`
	Cities         []string      `envconfig:"CITIES" default:"Adana,Niğde,Mersin,Kahramanmaraş,Hatay,Gaziantep,Osmaniye,Kilis,Aksaray" validate:"min=1,dive,required"`
	LinksSource    string        `envconfig:"LINKS_SOURCE"`
	RulesSource    string        `envconfig:"RULES_SOURCE"`
	RulesRefresh   time.Duration `envconfig:"RULES_REFRESH" default:"10m"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"30m" validate:"gt=0"`
	SessionBackend string        `envconfig:"SESSION_BACKEND" default:"memory" validate:"oneof=memory redis"`
	HandoffTTL     time.Duration `envconfig:"HANDOFF_TTL" default:"1h" validate:"gt=0"`
	AIProvider     string        `envconfig:"AI_PROVIDER" default:"none" validate:"oneof=none gemini openai"`
	AIRate         float64       `envconfig:"AI_RATE" default:"1" validate:"gte=0"`
	AIBurst        int           `envconfig:"AI_BURST" default:"5" validate:"gte=0"`
	VoiceNotes     bool          `envconfig:"VOICE_NOTES" default:"false"`
}

func LoadChatbotConfig(validate *validator.Validate) (ChatbotConfig, error) {
	var cfg ChatbotConfig
	if err := envconfig.Process("CHATBOT", &cfg); err != nil {
		return ChatbotConfig{}, fmt.Errorf("failed to read chatbot config: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return ChatbotConfig{}, fmt.Errorf("invalid chatbot config: %w", err)
	}

	return cfg, nil
}

// UsesS3 reports whether any data source is an s3:// object.
func (c ChatbotConfig) UsesS3() bool {
	return strings.HasPrefix(c.LinksSource, "s3://") || strings.HasPrefix(c.RulesSource, "s3://")
}

// UsesSheets reports whether rules come from a Google Sheet.
func (c ChatbotConfig) UsesSheets() bool {
	return strings.HasPrefix(c.RulesSource, "sheets://")
}
