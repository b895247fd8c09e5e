package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/fiscaldesk/hub/internal/api/handlers"
	"github.com/fiscaldesk/hub/internal/api/middleware"
	"github.com/fiscaldesk/hub/internal/config"
	"github.com/fiscaldesk/hub/internal/googleai"
	"github.com/fiscaldesk/hub/internal/openai"
	"github.com/fiscaldesk/hub/internal/repository"
	"github.com/fiscaldesk/hub/internal/service"
	"github.com/fiscaldesk/hub/pkg/database"
)

const queryCacheSize = 256

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Configure slog with the log level from config
	setupLogging(cfg.LogLevel)

	// Initialize database connection
	db, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, database.WithVectorTypes())
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Gemini handles embeddings always; generation only when it is the provider
	googleClient, err := googleai.NewClient(ctx, cfg.GeminiAPIKey,
		googleai.WithDimensions(cfg.EmbeddingDimensions),
		googleai.WithEmbeddingModel(cfg.EmbeddingModel),
		googleai.WithGenerationModel(cfg.GenerationModel),
	)
	if err != nil {
		slog.Error("Failed to initialize Google AI client", "error", err)
		os.Exit(1)
	}

	var generationClient service.GenerationClient = googleClient
	if cfg.GenerationProvider == config.GenerationProviderOpenAI {
		openaiClient := openai.NewClient(cfg.OpenAIAPIKey, openai.WithModel(cfg.OpenAIModel))
		generationClient = openaiClient
		slog.Info("Generation provider: OpenAI", "model", openaiClient.Model())
	} else {
		slog.Info("Generation provider: Google", "model", cfg.GenerationModel)
	}

	// Initialize repositories
	invoicesRepo := repository.NewInvoicesRepository(db)
	embeddingsRepo := repository.NewEmbeddingsRepository(db)

	// Rate limiter shared by all embedding calls
	rateLimiter := rate.NewLimiter(rate.Limit(cfg.EmbeddingRateLimit), 1)

	queryCache, err := lru.New[string, []float32](queryCacheSize)
	if err != nil {
		slog.Error("Failed to create query embedding cache", "error", err)
		os.Exit(1)
	}

	// Initialize services
	indexingService := service.NewIndexingService(service.IndexingServiceParams{
		Invoices:      invoicesRepo,
		Store:         embeddingsRepo,
		Embedder:      googleClient,
		Model:         cfg.EmbeddingModel,
		Dimensions:    cfg.EmbeddingDimensions,
		Limiter:       rateLimiter,
		MaxConcurrent: cfg.IndexMaxConcurrent,
	})

	structuredService := service.NewStructuredAnswerService(service.StructuredAnswerServiceParams{
		Retriever: invoicesRepo,
		Generator: generationClient,
	})

	semanticService := service.NewSemanticAnswerService(service.SemanticAnswerServiceParams{
		Embedder:   googleClient,
		Store:      embeddingsRepo,
		Generator:  generationClient,
		TopK:       cfg.TopK,
		QueryCache: queryCache,
	})

	ragHandler := handlers.NewRAGHandler(structuredService, semanticService, indexingService)
	healthHandler := handlers.NewHealthHandler()

	// Set up routes: /health is public, everything under /v1 requires the API key
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)

	router.Get("/health", healthHandler.Check)

	router.Route("/v1/rag", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.APIKey))

		r.Post("/ask", ragHandler.Ask)
		r.Get("/examples", ragHandler.Examples)
		r.Get("/status", ragHandler.Status)
		r.Post("/index", ragHandler.IndexAll)
		r.Post("/index/{id}", ragHandler.IndexOne)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// setupLogging configures slog with the specified log level
func setupLogging(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	slog.SetDefault(slog.New(handler))
}
