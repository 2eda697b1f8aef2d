package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"IsraBot/internal/config"
	"IsraBot/pkg/google"
	"IsraBot/pkg/log"
	"IsraBot/pkg/redis"
	websocketPkg "IsraBot/pkg/websocket"
	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()

	chatbotConfig, err := config.LoadChatbotConfig(validator)
	if err != nil {
		logger.Fatal(err)
	}

	options := []config.ServerOption{
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithChatbotConfig(chatbotConfig),
		config.WithMiddleware(),
		config.WithWebSocketHub(websocketPkg.NewHub(logger)),
		config.WithBcryptUtils(),
	}

	if chatbotConfig.SessionBackend == config.SessionBackendRedis {
		options = append(options, config.WithRedisServer(redis.New()))
	}
	if chatbotConfig.UsesS3() {
		options = append(options, config.WithS3Client())
	}
	if chatbotConfig.UsesSheets() {
		googleProvider, err := google.New(ctx)
		if err != nil {
			logger.Fatalf("Failed to create Google Sheets client: %v", err)
		}
		options = append(options, config.WithGoogleProvider(googleProvider))
	}

	switch chatbotConfig.AIProvider {
	case config.AIProviderGemini:
		options = append(options, config.WithGeminiClient())
	case config.AIProviderOpenAI:
		options = append(options, config.WithOpenAIClient())
	}

	if enabled, _ := strconv.ParseBool(os.Getenv("WHATSAPP_ENABLED")); enabled {
		if chatbotConfig.VoiceNotes {
			options = append(options, config.WithTranscriber())
		}
		options = append(options, config.WithWhatsappClient(ctx))
	}

	server, err := config.NewServer(options...)
	if err != nil {
		logger.Fatal(err)
	}

	if err := server.RegisterHandler(ctx); err != nil {
		logger.Fatalf("Failed to register handlers: %v", err)
	}

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}
