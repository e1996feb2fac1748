package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"yatra-backend/internal/config"
	"yatra-backend/internal/database"
	"yatra-backend/internal/handlers"
	"yatra-backend/internal/logging"
	"yatra-backend/internal/middleware"
	"yatra-backend/internal/models"
	"yatra-backend/internal/router"
	"yatra-backend/internal/services"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, !cfg.IsProduction())
	log.Info().Msg("🚀 Starting Yatra Backend...")
	log.Info().Msg("✓ Environment variables loaded")

	if config.APIKey() == "" {
		log.Warn().Msgf("✗ %s is not set; every /api request will be rejected until it is", config.APIKeyEnv)
	}

	// ──── Step 2: Rate Limiting (Redis when configured) ────
	var rateLimit func(http.Handler) http.Handler
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("✗ Redis connection failed")
		}
		defer redisClient.Close()
		rateLimit = middleware.NewRedisRateLimiter(redisClient, cfg.RateLimitPerMinute, time.Minute).Middleware
		log.Info().Msg("✓ Redis connected (shared rate limiting)")
	} else {
		limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		defer limiter.Stop()
		rateLimit = limiter.Middleware
		log.Info().Msg("✓ In-process rate limiting")
	}

	// ──── Step 3: Initialize Gemini Gateway ────
	geminiService := services.NewGeminiService(config.APIKey, cfg.GeminiConcurrentReqs)
	defer geminiService.Close()
	log.Info().Str("model", cfg.GeminiModel).Str("language_model", cfg.GeminiLanguageModel).Msg("✓ Gemini gateway ready")

	generation := models.GenerationConfig{
		Temperature:     float32(cfg.GeminiTemperature),
		MaxOutputTokens: int32(cfg.GeminiMaxTokens),
		TopP:            float32(cfg.GeminiTopP),
	}

	// ──── Initialize Services ────
	budgetService := services.NewBudgetService(geminiService, cfg.GeminiModel, generation)
	chatService := services.NewChatService(geminiService, cfg.GeminiModel, services.PersonaTravel, generation)
	languageService := services.NewChatService(geminiService, cfg.GeminiLanguageModel, services.PersonaLanguage, generation)

	// ──── Initialize Handlers ────
	r := router.New(router.Deps{
		KeySource:       config.APIKey,
		MissingKey:      config.MissingAPIKeyMessage,
		BudgetHandler:   handlers.NewBudgetHandler(budgetService),
		ChatHandler:     handlers.NewChatHandler(chatService, "chat"),
		LanguageHandler: handlers.NewChatHandler(languageService, "language"),
		SystemHandler:   handlers.NewSystemHandler(config.APIKey, config.MissingAPIKeyMessage),
		RateLimit:       rateLimit,
		FrontendURL:     cfg.FrontendURL,
	})

	// ──── Step 4: Start HTTP Server ────
	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// streamed replies can run long
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info().Msgf("✓ Yatra Backend ready on http://localhost:%s", cfg.Port)
	log.Info().Msgf("  API: http://localhost:%s/api", cfg.Port)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server error")
	}
}
