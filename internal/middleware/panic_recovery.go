package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"budget-buddy/internal/errors"

	"github.com/labstack/echo/v4"
)

// PanicRecovery is a middleware that recovers from panics and returns a standardized error response
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				traceID := GetTraceID(c)
				if traceID == "" {
					traceID = "unknown"
				}

				slog.Error("Panic recovered",
					"trace_id", traceID,
					"panic", fmt.Sprintf("%v", r),
					"stack_trace", string(debug.Stack()),
					"path", c.Request().URL.Path,
					"method", c.Request().Method,
				)

				if c.Response().Committed {
					return
				}
				err = c.JSON(http.StatusInternalServerError, errors.NewErrorResponse(errors.SystemInternalError, traceID))
			}()

			return next(c)
		}
	}
}
