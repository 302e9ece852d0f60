package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"budget-buddy/internal/config"
	"budget-buddy/internal/server"
	"budget-buddy/internal/services"
	"budget-buddy/internal/transactions"
	"budget-buddy/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const consoleTokenSubject = "budget-console"

func main() {
	demo := flag.Bool("demo", false, "run an in-process stand-in backend and point the console at it")
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	flag.Parse()

	// Load .env file for local development (ignore errors when absent)
	_ = godotenv.Load(*envFile)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// the terminal belongs to the UI, so logs go to a file
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file %s: %v\n", cfg.Log.File, err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: cfg.Log.Level,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, *demo, logger); err != nil {
		logger.Error("budgetbuddy exited with error", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, demo bool, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	reg := prometheus.NewRegistry()
	metrics := services.NewPrometheusMetrics(reg)

	var healthy func() error
	if demo {
		backend, err := server.OpenBackend(cfg, metrics, reg, logger.With("component", "stub"))
		if err != nil {
			return err
		}
		defer backend.Close()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("listen for demo backend: %w", err)
		}
		cfg.API.BaseURL = "http://" + ln.Addr().String()

		token, err := backend.IssueToken(consoleTokenSubject)
		if err != nil {
			return fmt.Errorf("issue demo token: %w", err)
		}
		if token != "" {
			cfg.API.Token = token
		}

		healthy = backend.DB.HealthCheck
		g.Go(func() error { return backend.Serve(gctx, ln) })
		logger.Info("Demo backend started", "base_url", cfg.API.BaseURL, "auth", token != "")
	}

	if cfg.Metrics.Addr != "" {
		diagnostics := server.NewDiagnostics(reg, healthy, logger.With("component", "diagnostics"))
		g.Go(func() error { return diagnostics.ListenAndServe(gctx, cfg.Metrics.Addr) })
	}

	api := services.NewTransactionAPI(&cfg.API, logger, metrics)
	surface := tui.NewSurface(transactions.EditOptions{
		Categories: cfg.UI.Categories,
		Accounts:   cfg.UI.Accounts,
	})
	controller := transactions.NewController(api, surface.Bindings(),
		transactions.WithLogger(logger),
		transactions.WithMetrics(metrics),
		transactions.WithDebounceDelay(cfg.UI.DebounceDelay),
		transactions.WithBaseContext(gctx),
	)
	defer controller.Close()

	program := tea.NewProgram(
		tui.NewModel(gctx, controller, surface),
		tea.WithAltScreen(),
		tea.WithContext(gctx),
	)
	surface.Attach(program)

	g.Go(func() error {
		// quitting the UI stops the listeners
		defer cancel()
		if _, err := program.Run(); err != nil && gctx.Err() == nil && !stderrors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("terminal UI: %w", err)
		}
		return nil
	})

	logger.Info("Console started", "api_base_url", cfg.API.BaseURL)
	return g.Wait()
}
