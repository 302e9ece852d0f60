package handlers

import (
	"log/slog"
	"net/http"

	"budget-buddy/internal/dto"
	"budget-buddy/internal/errors"

	"github.com/labstack/echo/v4"
)

// Handlers answer with one of two shapes:
//
// 1. SendError for client and business errors (4xx). The body is the
//    ErrorResponse envelope whose "error" field carries the displayable reason.
//
// 2. SendSystemError for storage and other internal failures (5xx). The
//    internal error is logged and only a generic reason is returned.
//
// Successful mutations reply with dto.MutationResponse{Success: true}.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError wraps a system error with generic message and logs the internal error
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, internal := errors.WrapSystemError(err, traceID)
	slog.ErrorContext(c.Request().Context(), "request failed",
		"trace_id", traceID,
		"path", c.Request().URL.Path,
		"error", internal,
	)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}

// SendDatabaseError reports an unreachable store as 503 and logs the cause
func SendDatabaseError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, internal := errors.WrapDatabaseError(err, traceID)
	slog.WarnContext(c.Request().Context(), "database unavailable",
		"trace_id", traceID,
		"path", c.Request().URL.Path,
		"error", internal,
	)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendMutationSuccess acknowledges an update or delete
func SendMutationSuccess(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, dto.MutationResponse{Success: true, Message: message})
}
