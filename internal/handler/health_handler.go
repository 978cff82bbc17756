package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthStatus handles the health check endpoint
func HealthStatus(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}
