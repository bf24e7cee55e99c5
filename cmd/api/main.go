package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medcompanion/medcompanion-ai/internal/api/router"
	"github.com/medcompanion/medcompanion-ai/internal/chat"
	appconfig "github.com/medcompanion/medcompanion-ai/internal/config"
	"github.com/medcompanion/medcompanion-ai/internal/http/handlers"
	"github.com/medcompanion/medcompanion-ai/internal/observability/metrics"
	"github.com/medcompanion/medcompanion-ai/internal/webchat"
	"github.com/medcompanion/medcompanion-ai/pkg/logging"
)

func main() {
	// Load .env if present, then configuration from the environment
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting medcompanion-ai API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"model", cfg.GeminiModelID,
	)

	// The model client is constructed up front: a missing credential is a
	// configuration error, not something to fail on mid-conversation.
	ctx := context.Background()
	llmClient, err := chat.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	if err != nil {
		logger.Error("GEMINI_API_KEY not configured", "error", err)
		os.Exit(1)
	}
	defer func() { _ = llmClient.Close() }()

	chatMetrics := metrics.NewChatMetrics(nil)

	sessions := chat.NewSessionManager(llmClient, chat.EngineConfig{
		ContextTurns:   cfg.HistoryContextTurns,
		MaxTokens:      int32(cfg.LLMMaxTokens),
		Temperature:    cfg.LLMTemperature,
		InjectionGuard: cfg.PromptGuardEnabled,
	}, logger, chatMetrics)

	chatHandler := handlers.NewChatHandler(sessions, cfg.Version, logger)
	staticHandler := handlers.NewStaticHandler(cfg.StaticDir, cfg.Version)
	webchatHandler := webchat.NewHandler(sessions, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        chatHandler,
		StaticHandler:      staticHandler,
		WebChatHandler:     webchatHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // model calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
