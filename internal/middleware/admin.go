// Package middleware provides reusable HTTP middleware: admin session
// enforcement, claim rate limiting and the public-view cache.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/potluck-organizer/internal/auth"
)

// AdminAuth returns an Echo middleware that requires a valid admin session
// cookie. The cookie carries an HS256 JWT issued at login; a missing,
// forged or expired token aborts the request with 403 Forbidden (the
// admin domain has no notion of "authenticated but not allowed", so
// everything short of a valid session is the same outcome). On success
// the request proceeds with "is_admin" set in the context.
func AdminAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := auth.ReadCookie(c, auth.AdminCookieName)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
			}
			if err := auth.ParseAdminToken(secret, raw); err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
			}
			c.Set("is_admin", true)
			return next(c)
		}
	}
}
