package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"budget-buddy/internal/config"
	"budget-buddy/internal/server"
	"budget-buddy/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	issueToken := flag.String("issue-token", "", "print a bearer token for the given subject and exit")
	flag.Parse()

	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if *issueToken != "" {
		if !cfg.Stub.AuthEnabled() {
			logger.Error("STUB_JWT_SECRET is not set; tokens are not required")
			os.Exit(1)
		}
		token, expiresAt, err := services.NewTokenService(&cfg.Stub).GenerateAccessToken(*issueToken)
		if err != nil {
			logger.Error("Failed to issue token", "error", err)
			os.Exit(1)
		}
		logger.Info("Token issued", "subject", *issueToken, "expires_at", expiresAt)
		fmt.Println(token)
		return
	}

	logger = logger.With("component", "stub")
	if cfg.Stub.IsProduction() {
		logger.Warn("Stand-in backend running with APP_ENV=production")
	}

	backend, err := server.OpenBackend(cfg, services.NewPrometheusMetrics(nil), nil, logger)
	if err != nil {
		logger.Error("Failed to open stub backend", "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := backend.ListenAndServe(ctx, ":"+cfg.Stub.Port); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Stub.Port)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
