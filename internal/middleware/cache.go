package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/potluck-organizer/internal/auth"
	"github.com/iliyamo/potluck-organizer/internal/config"
)

// The public potluck page is the only read-heavy endpoint: every attendee
// of an event polls the same slug. Responses are cached in Redis keyed by
// slug, so a mutation anywhere in the tree (or the invalidation consumer)
// can evict exactly one entry. Only 200 responses are cached, and only for
// viewers without an attendee session: once a visitor has claimed
// something their page carries per-viewer ownership markers that must not
// be shared.

// ViewCacheKey builds the Redis key for a potluck's cached public view.
// Shared with the queue consumer, which evicts by slug.
func ViewCacheKey(prefix, slug string) string {
	return prefix + ":" + slug
}

// captureWriter captures the response body/status while forwarding to the
// client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.buf.Write(b)
	return cw.ResponseWriter.Write(b)
}

// NewPotluckViewCache returns a middleware for GET /p/:slug. On a hit the
// cached JSON body is served directly; on a miss the handler runs and a
// 200 response is stored with the configured TTL. Disabled (or a nil
// Redis client) yields a passthrough, and Redis failures fall back to the
// handler instead of failing the request.
func NewPotluckViewCache(cfg config.ViewCacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			slug := c.Param("slug")
			if slug == "" || c.Request().Method != http.MethodGet {
				return next(c)
			}
			if _, err := c.Cookie(auth.AttendeeCookieName); err == nil {
				return next(c)
			}
			key := ViewCacheKey(cfg.Prefix, slug)
			ctx := c.Request().Context()

			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = cw
			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && cw.buf.Len() > 0 {
				// Best effort: a failed SET only costs the next reader a miss.
				_ = rdb.Set(ctx, key, cw.buf.Bytes(), ttl).Err()
			}
			return nil
		}
	}
}
