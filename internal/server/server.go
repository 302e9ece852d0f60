package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"budget-buddy/internal/config"
	"budget-buddy/internal/handlers"
	"budget-buddy/internal/middleware"
	"budget-buddy/internal/models"
	"budget-buddy/internal/repositories"
	"budget-buddy/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	shutdownTimeout     = 10 * time.Second
	visitorSweepEvery   = time.Minute
	maxHeaderBytes      = 1 << 16
	transactionsAPIPath = "/api/transactions"
)

// StubDependencies are the collaborators the stand-in backend is assembled from
type StubDependencies struct {
	Config       *config.StubConfig
	Store        handlers.HealthChecker
	Transactions repositories.TransactionRepositoryInterface
	Categories   []models.Option
	Accounts     []models.Option
	// Tokens guards the transactions API when set
	Tokens  services.TokenServiceInterface
	Metrics services.MetricsRecorderInterface
	// Gatherer backs /metrics; the default registry when nil
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Stub is the stand-in transactions backend
type Stub struct {
	echo    *echo.Echo
	config  *config.StubConfig
	limiter *middleware.RateLimiter
	logger  *slog.Logger
}

// NewStub wires middleware and routes
func NewStub(deps StubDependencies) *Stub {
	if deps.Metrics == nil {
		deps.Metrics = services.NewNoopMetrics()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.NewHTTPErrorHandler(deps.Metrics)

	limiter := middleware.NewRateLimiter(deps.Config.RateLimitPerSecond, deps.Config.RateLimitBurst, deps.Metrics)

	e.Use(
		middleware.RequestID(),
		middleware.RequestLogger(deps.Logger, deps.Metrics),
		middleware.PanicRecovery(),
		middleware.SecurityHeaders(),
		limiter.Middleware(),
	)

	health := handlers.NewHealthCheckHandler(deps.Store)
	e.GET("/health", health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))

	audit := services.NewAuditLogger(deps.Logger.With("component", "audit"))
	txHandler := handlers.NewTransactionHandler(deps.Transactions, audit, deps.Categories, deps.Accounts)
	api := e.Group(transactionsAPIPath)
	if deps.Tokens != nil {
		api.Use(middleware.RequireAuth(deps.Tokens))
	}
	api.GET("", txHandler.ListTransactions)
	api.POST("/update", txHandler.UpdateTransaction)
	api.DELETE("/delete/:id", txHandler.DeleteTransaction)

	return &Stub{
		echo:    e,
		config:  deps.Config,
		limiter: limiter,
		logger:  deps.Logger,
	}
}

// Handler exposes the router, mainly for httptest servers
func (s *Stub) Handler() http.Handler {
	return s.echo
}

// Serve answers on ln until ctx is cancelled, then shuts down gracefully
func (s *Stub) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:        s.echo,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: maxHeaderBytes,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.limiter.Run(sweepCtx, visitorSweepEvery)

	return serveUntilDone(ctx, srv, ln, s.logger, "stub backend")
}

// ListenAndServe binds addr and serves until ctx is cancelled
func (s *Stub) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func serveUntilDone(ctx context.Context, srv *http.Server, ln net.Listener, logger *slog.Logger, name string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "name", name, "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down server", "name", name)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "name", name, "error", err)
		return err
	}

	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
