// Package router maps HTTP routes to handlers, split by trust domain:
// open routes, the admin group behind session auth, and the public
// attendee surface.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/potluck-organizer/internal/handler"
)

// RegisterRoutes registers the routes outside both trust domains: the
// health probe, the landing page, and admin login/logout. Login itself
// cannot sit behind the admin middleware, and logout is harmless without
// a session.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler) {
	e.GET("/healthz", handler.Healthz)
	e.GET("/", a.Index)
	e.POST("/admin/login", a.Login)
	e.GET("/admin/logout", a.Logout)
}
