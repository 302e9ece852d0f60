package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	HealthCheck() error
}

// HealthCheckHandler handles the health check endpoint
type HealthCheckHandler struct {
	db HealthChecker
}

// NewHealthCheckHandler creates a new health check handler
func NewHealthCheckHandler(db HealthChecker) *HealthCheckHandler {
	return &HealthCheckHandler{db: db}
}

// HealthCheck reports API and database status.
// 200 {status, time} when healthy, 503 SYSTEM_002 when the database is unreachable.
func (h *HealthCheckHandler) HealthCheck(c echo.Context) error {
	if err := h.db.HealthCheck(); err != nil {
		return SendDatabaseError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
