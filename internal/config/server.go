package config

import (
	"context"
	"fmt"
	"os"
	"time"

	adminHandler "IsraBot/internal/api/admin/handler"
	adminService "IsraBot/internal/api/admin/service"
	chatbotHandler "IsraBot/internal/api/chatbot/handler"
	chatbotRepository "IsraBot/internal/api/chatbot/repository"
	chatbotService "IsraBot/internal/api/chatbot/service"
	"IsraBot/internal/entity"
	"IsraBot/internal/middleware"
	"IsraBot/pkg/audio"
	"IsraBot/pkg/bcrypt"
	"IsraBot/pkg/catalog"
	"IsraBot/pkg/gemini"
	"IsraBot/pkg/google"
	"IsraBot/pkg/nlp"
	"IsraBot/pkg/openai"
	"IsraBot/pkg/redis"
	"IsraBot/pkg/rules"
	"IsraBot/pkg/s3"
	"IsraBot/pkg/source"
	websocketPkg "IsraBot/pkg/websocket"
	"IsraBot/pkg/whatsapp"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const janitorInterval = time.Minute

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	bcryptUtils    bcrypt.IBcrypt
	handlers       []handler
	chatbotConfig  ChatbotConfig
	googleProvider google.ItfGoogle
	redisServer    redis.IRedis
	hub            websocketPkg.IHub
	whatsappClient whatsapp.IWhatsappSender
	generator      chatbotService.Generator
	closeGenerator func() error
	s3Client       s3.ItfS3
	transcriber    audio.ITranscriber
	chatbot        chatbotService.IChatbotService
	ruleStore      rules.IStore
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log)
	}
	if server.bcryptUtils == nil {
		server.bcryptUtils = bcrypt.New()
	}
	if server.hub == nil {
		server.hub = websocketPkg.NewHub(server.log)
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithChatbotConfig(cfg ChatbotConfig) ServerOption {
	return func(s *Server) error {
		s.chatbotConfig = cfg
		return nil
	}
}

func WithGoogleProvider(provider google.ItfGoogle) ServerOption {
	return func(s *Server) error {
		s.googleProvider = provider
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithWebSocketHub(hub websocketPkg.IHub) ServerOption {
	return func(s *Server) error {
		s.hub = hub
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithWhatsappClient(ctx context.Context) ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before whatsapp")
		}
		var transcriber whatsapp.Transcriber
		if s.transcriber != nil {
			transcriber = s.transcriber
		}
		client, err := whatsapp.New(ctx, s.log, transcriber)
		if err != nil {
			s.log.Errorf("Failed to initialize WhatsApp client: %v", err)
			return fmt.Errorf("failed to create WhatsApp client: %w", err)
		}
		s.whatsappClient = client
		return nil
	}
}

// WithTranscriber enables WhatsApp voice notes. Apply it before WithWhatsappClient.
func WithTranscriber() ServerOption {
	return func(s *Server) error {
		transcriber, err := audio.NewTranscriptionService()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create transcription service: %v", err)
			}
			return fmt.Errorf("failed to create transcription service: %w", err)
		}
		s.transcriber = transcriber
		return nil
	}
}

func WithGeminiClient() ServerOption {
	return func(s *Server) error {
		client, err := gemini.NewGeminiClient()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create Gemini client: %v", err)
			}
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.generator = client
		s.closeGenerator = client.Close
		return nil
	}
}

func WithOpenAIClient() ServerOption {
	return func(s *Server) error {
		client, err := openai.NewChatGPT()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create OpenAI client: %v", err)
			}
			return fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		s.generator = client
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

// RegisterHandler loads the link catalog and rules, builds the chatbot and
// admin domains and starts their background workers. Workers stop with ctx.
func (s *Server) RegisterHandler(ctx context.Context) error {
	cfg := s.chatbotConfig
	reader := source.New(s.s3Client)

	ruleSource, err := rules.NewSource(cfg.RulesSource, reader, s.googleProvider)
	if err != nil {
		return fmt.Errorf("failed to configure rule source: %w", err)
	}
	s.ruleStore = rules.NewStore(s.log, ruleSource)

	var linkCatalog catalog.ICatalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loaded, err := catalog.Load(gctx, reader, cfg.BaseURL, cfg.LinksSource)
		if err != nil {
			return err
		}
		linkCatalog = loaded
		return nil
	})
	g.Go(func() error {
		// A failed first fetch leaves the rule set empty until the next refresh.
		_ = s.ruleStore.Refresh(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"links":        linkCatalog.Len(),
		"rules":        len(s.ruleStore.Rules()),
		"rules_source": ruleSource.String(),
	}).Info("Chatbot data loaded")

	// Chatbot Domain
	var repo chatbotRepository.Repository
	switch cfg.SessionBackend {
	case SessionBackendRedis:
		if s.redisServer == nil {
			return fmt.Errorf("redis session backend selected but redis is not configured")
		}
		repo = chatbotRepository.NewRedis(s.log, s.redisServer, cfg.SessionTTL)
	default:
		repo = chatbotRepository.NewMemory(s.log, cfg.SessionTTL)
	}

	extractor := nlp.NewExtractor(cfg.Cities, linkCatalog.Districts())
	composer := chatbotService.NewComposer(s.log, s.generator, rate.Limit(cfg.AIRate), cfg.AIBurst)

	s.chatbot = chatbotService.NewChatbotService(
		s.log, repo, s.ruleStore, linkCatalog, extractor, composer, s.hub,
		chatbotService.Config{HandoffTTL: cfg.HandoffTTL},
	)
	chatbotHandlers := chatbotHandler.New(s.log, s.validator, s.middleware, s.chatbot, chatbotHandler.WebhookConfig{
		TwilioAuthToken: os.Getenv("TWILIO_AUTH_TOKEN"),
		PublicURL:       os.Getenv("TWILIO_WEBHOOK_URL"),
	})

	// Admin Domain
	adminServices := adminService.NewAdminService(s.log, s.bcryptUtils, s.chatbot, s.whatsappClient, adminService.Config{
		Username:     os.Getenv("ADMIN_USERNAME"),
		PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	})
	adminHandlers := adminHandler.New(s.log, s.validator, s.middleware, adminServices, s.chatbot, s.hub)

	go s.ruleStore.Run(ctx, cfg.RulesRefresh)
	go s.runJanitor(ctx)

	if s.whatsappClient != nil {
		if err := s.whatsappClient.Start(ctx, s.handleWhatsappMessage); err != nil {
			return fmt.Errorf("failed to start whatsapp channel: %w", err)
		}
	}

	s.handlers = append(s.handlers, chatbotHandlers, adminHandlers)
	return nil
}

func (s *Server) handleWhatsappMessage(ctx context.Context, senderID, text string) (string, error) {
	reply, err := s.chatbot.HandleMessage(ctx, entity.ChannelWhatsapp, senderID, text)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

func (s *Server) runJanitor(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.chatbot.ExpireSessions(ctx)
			if err != nil {
				s.log.WithField("error", err.Error()).Warn("Session sweep failed")
				continue
			}
			if removed > 0 {
				s.log.WithField("removed", removed).Debug("Expired idle sessions")
			}
		}
	}
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())
	s.setupHealthCheck()
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown stops the HTTP server and releases the channel clients.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.engine.ShutdownWithContext(ctx)

	s.hub.Close()

	if s.whatsappClient != nil {
		if dErr := s.whatsappClient.Disconnect(); dErr != nil {
			s.log.WithField("error", dErr.Error()).Warn("Failed to disconnect WhatsApp")
		}
	}
	if s.closeGenerator != nil {
		_ = s.closeGenerator()
	}
	if s.redisServer != nil {
		_ = s.redisServer.Close()
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message":          "Server is Healthy!",
			"rules":            len(s.ruleStore.Rules()),
			"feed_subscribers": s.hub.Subscribers(),
		})
	})
}
