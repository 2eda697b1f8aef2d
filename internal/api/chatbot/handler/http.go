package chatbotHandler

import (
	chatbotService "IsraBot/internal/api/chatbot/service"
	"IsraBot/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go/client"
)

type ChatbotHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	chatbotService chatbotService.IChatbotService
	signatures     *client.RequestValidator
	webhookURL     string
}

type WebhookConfig struct {
	// TwilioAuthToken enables X-Twilio-Signature checks when set.
	TwilioAuthToken string
	// PublicURL is the webhook address as Twilio sees it. Empty uses the request URL.
	PublicURL string
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs chatbotService.IChatbotService,
	config WebhookConfig,
) *ChatbotHandler {
	h := &ChatbotHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		chatbotService: cs,
		webhookURL:     config.PublicURL,
	}

	if config.TwilioAuthToken != "" {
		rv := client.NewRequestValidator(config.TwilioAuthToken)
		h.signatures = &rv
	}

	return h
}

func (h *ChatbotHandler) Start(srv fiber.Router) {
	webhook := srv.Group("/webhook")
	webhook.Use(h.middleware.NewRateLimiter)
	webhook.Post("/twilio", h.HandleTwilioWebhook)

	srv.Post("/chat", h.middleware.NewRateLimiter, h.HandleChat)
}
