package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/potluck-organizer/internal/auth"
)

// AuthHandler implements admin login and logout. The admin domain has a
// single shared password; a successful login issues a signed session
// token in an HttpOnly cookie, valid for 24 hours.
type AuthHandler struct {
	adminHash     string // bcrypt hash of the shared admin password
	sessionSecret string // HS256 signing secret for session tokens
}

// NewAuthHandler constructs an AuthHandler from the bcrypt hash of the
// admin password and the session signing secret.
func NewAuthHandler(adminHash, sessionSecret string) *AuthHandler {
	if adminHash == "" || sessionSecret == "" {
		panic("empty secret passed to NewAuthHandler")
	}
	return &AuthHandler{adminHash: adminHash, sessionSecret: sessionSecret}
}

// Index handles GET / and reports whether the caller currently holds an
// admin session, so the landing page can show either the login form or
// the dashboard link.
func (h *AuthHandler) Index(c echo.Context) error {
	isAdmin := false
	if raw, ok := auth.ReadCookie(c, auth.AdminCookieName); ok {
		isAdmin = auth.ParseAdminToken(h.sessionSecret, raw) == nil
	}
	return c.JSON(http.StatusOK, echo.Map{"is_admin": isAdmin})
}

// Login handles POST /admin/login. The submitted password is verified
// against the bcrypt hash; on success an admin session cookie is set and
// the browser is redirected to the dashboard. A wrong password grants
// nothing and returns 403.
func (h *AuthHandler) Login(c echo.Context) error {
	password := c.FormValue("password")
	if password == "" || !auth.VerifyPassword(h.adminHash, password) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid admin password"})
	}
	token, exp, err := auth.NewAdminToken(h.sessionSecret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create session"})
	}
	auth.WriteSessionCookie(c, auth.AdminCookieName, token, exp)
	return c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// Logout handles GET /admin/logout. It clears the admin session cookie
// and sends the browser back to the landing page. The token itself is
// not tracked server-side, so clearing the cookie is the whole logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	auth.ClearSessionCookie(c, auth.AdminCookieName)
	return c.Redirect(http.StatusSeeOther, "/")
}
