package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Healthz responds to GET /healthz for load balancers and uptime probes.
func Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
