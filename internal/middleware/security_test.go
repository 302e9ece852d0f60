package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"budget-buddy/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	handler := SecurityHeaders()(func(c echo.Context) error {
		return c.JSON(http.StatusOK, []string{})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	rec := httptest.NewRecorder()

	assert.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	headers := rec.Header()
	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", headers.Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", headers.Get("Content-Security-Policy"))
	assert.Equal(t, "no-referrer", headers.Get("Referrer-Policy"))
	assert.Equal(t, "no-store", headers.Get("Cache-Control"))
	assert.Equal(t, "no-cache", headers.Get("Pragma"))
}

func TestSecurityHeaders_SetOnErrorResponses(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(services.NewNoopMetrics())
	e.Use(SecurityHeaders())
	e.GET("/boom", func(c echo.Context) error {
		return echo.ErrServiceUnavailable
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
