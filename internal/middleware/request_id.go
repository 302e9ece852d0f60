package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"budget-buddy/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// TraceIDHeader is the header name for the trace ID
	TraceIDHeader = services.TraceHeader
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// RequestID is a middleware that reuses the caller's trace ID or generates one,
// and sets it in both the response header and the request context
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()

			traceID := req.Header.Get(TraceIDHeader)
			if traceID == "" {
				traceID = uuid.New().String()
			}

			c.Set(TraceIDContextKey, traceID)
			res.Header().Set(TraceIDHeader, traceID)
			return next(c)
		}
	}
}

// GetTraceID extracts the trace ID from the Echo context
// Returns empty string if not found
func GetTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// RequestLogger logs one line per request and counts it by route and status.
// Handler errors are rendered here so the logged status is the one sent.
func RequestLogger(logger *slog.Logger, metrics services.MetricsRecorderInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			logger.LogAttrs(c.Request().Context(), level, "request handled",
				slog.String("trace_id", GetTraceID(c)),
				slog.String("method", c.Request().Method),
				slog.String("route", c.Path()),
				slog.String("uri", c.Request().RequestURI),
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
			)

			metrics.IncrementCounter("backend.request", map[string]string{
				"endpoint": c.Path(),
				"status":   strconv.Itoa(status),
			})

			return nil
		}
	}
}
