package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"empenho-ia/internal/api"
	"empenho-ia/internal/api/handlers"
	"empenho-ia/internal/service"
	"empenho-ia/pkg/config"
	"empenho-ia/pkg/logger"
	"empenho-ia/pkg/metrics"

	"go.uber.org/zap"
)

// @title Empenho IA API
// @version 1.0
// @description Serviço de geração de descrição de Nota de Empenho a partir de documentos (PDF ou imagem) com IA generativa
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@empenho-ia.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Empenho IA service")

	ctx := context.Background()

	// Initialize the description model for the configured provider
	model, err := newDescriptionModel(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize description model", zap.Error(err))
	}
	defer model.Close()

	appMetrics := metrics.New()

	// Initialize services
	llmService := service.NewLLMService(model, cfg.LLM.CallTimeout, appLogger)
	validator := service.NewUploadValidator(appLogger)
	encoder := service.NewDocumentEncoder()
	sessionService := service.NewSessionService(validator, encoder, llmService, appMetrics, appLogger)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(sessionService, appLogger)

	// Setup router
	app := api.SetupRouter(sessionHandler, appMetrics.Handler(), &cfg.Server, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting",
			zap.String("address", addr),
			zap.String("provider", cfg.LLM.Provider),
		)
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}

func newDescriptionModel(ctx context.Context, cfg *config.Config, appLogger *zap.Logger) (service.DescriptionModel, error) {
	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		return service.NewGeminiService(ctx, &cfg.Gemini, cfg.LLM.Temperature, appLogger)
	case config.ProviderGigaChat:
		return service.NewGigaChatService(ctx, &cfg.GigaChat, cfg.LLM.Temperature, appLogger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
	}
}
