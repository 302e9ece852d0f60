package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Diagnostics serves the console's /metrics and /healthz
type Diagnostics struct {
	echo   *echo.Echo
	logger *slog.Logger
}

// NewDiagnostics exposes gatherer on /metrics. healthy is consulted by /healthz and may be nil.
func NewDiagnostics(gatherer prometheus.Gatherer, healthy func() error, logger *slog.Logger) *Diagnostics {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/healthz", func(c echo.Context) error {
		if healthy != nil {
			if err := healthy(); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	return &Diagnostics{echo: e, logger: logger}
}

func (d *Diagnostics) Handler() http.Handler {
	return d.echo
}

// ListenAndServe binds addr and serves until ctx is cancelled
func (d *Diagnostics) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           d.echo,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return serveUntilDone(ctx, srv, ln, d.logger, "diagnostics")
}
