package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Cookie names for the two session domains.
const (
	AdminCookieName    = "admin_session"
	AttendeeCookieName = "attendee_session"
)

// ReadCookie returns the trimmed value of the named cookie when present.
func ReadCookie(c echo.Context, name string) (string, bool) {
	cookie, err := c.Cookie(name)
	if err != nil || cookie == nil {
		return "", false
	}
	v := strings.TrimSpace(cookie.Value)
	if v == "" {
		return "", false
	}
	return v, true
}

// WriteSessionCookie sets a session cookie scoped to the whole site.
// Cookies are HttpOnly and SameSite=Lax; a zero expires leaves the cookie
// as a browser-session cookie (the attendee token case).
func WriteSessionCookie(c echo.Context, name, value string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Request().TLS != nil,
	}
	if !expires.IsZero() {
		cookie.Expires = expires
	}
	c.SetCookie(cookie)
}

// ClearSessionCookie expires the named cookie immediately.
func ClearSessionCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Request().TLS != nil,
		MaxAge:   -1,
	})
}
