package middleware

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"budget-buddy/internal/errors"
	"budget-buddy/internal/services"
	"budget-buddy/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// NewHTTPErrorHandler renders errors that escape handlers (routing misses,
// binder failures, panics turned into errors) as the standard error envelope
// and counts them as backend.api_error
func NewHTTPErrorHandler(metrics services.MetricsRecorderInterface) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		handleHTTPError(err, c, metrics)
	}
}

func handleHTTPError(err error, c echo.Context, metrics services.MetricsRecorderInterface) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	var errorResponse *errors.ErrorResponse
	var httpStatus int

	var echoErr *echo.HTTPError
	var validationErrs validator.ValidationErrors
	switch {
	case stderrors.As(err, &echoErr):
		errorResponse = errors.NewErrorResponse(
			mapHTTPStatusToErrorCode(echoErr.Code),
			traceID,
			errors.WithMessage(fmt.Sprintf("%v", echoErr.Message)),
		)
		httpStatus = echoErr.Code
	case stderrors.As(err, &validationErrs):
		fields := make(map[string]string, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields[fieldErr.Field()] = validation.FormatFieldError(fieldErr)
		}
		errorResponse = errors.NewValidationError(fields, traceID)
		errorResponse.Error = validation.Summary(fields)
		httpStatus = http.StatusBadRequest
	default:
		errorResponse, _ = errors.WrapSystemError(err, traceID)
		httpStatus = errorResponse.GetHTTPStatus()
	}

	logLevel := slog.LevelWarn
	if httpStatus >= 500 {
		logLevel = slog.LevelError
	}

	slog.Log(c.Request().Context(), logLevel, "HTTP error occurred",
		"trace_id", traceID,
		"error_code", errorResponse.Code,
		"status", httpStatus,
		"message", errorResponse.Error,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", err.Error(),
	)

	metrics.IncrementCounter("backend.api_error", map[string]string{
		"code":     errorResponse.Code,
		"endpoint": c.Path(),
		"status":   strconv.Itoa(httpStatus),
	})

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(httpStatus)
	} else {
		err = c.JSON(httpStatus, errorResponse)
	}
	if err != nil {
		slog.Error("Failed to send error response",
			"trace_id", traceID,
			"error", err.Error(),
		)
	}
}

// mapHTTPStatusToErrorCode maps HTTP status codes to error codes
func mapHTTPStatusToErrorCode(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusUnsupportedMediaType:
		return errors.ValidationGeneral
	case http.StatusUnauthorized:
		return errors.AuthMissingToken
	case http.StatusNotFound:
		return errors.SystemRouteNotFound
	case http.StatusMethodNotAllowed:
		return errors.SystemMethodNotAllowed
	case http.StatusTooManyRequests:
		return errors.SystemRateLimitExceeded
	case http.StatusServiceUnavailable:
		return errors.SystemDatabaseError
	default:
		return errors.SystemInternalError
	}
}
