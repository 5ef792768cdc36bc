package router

import (
	"github.com/redis/go-redis/v9"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/potluck-organizer/internal/config"
	"github.com/iliyamo/potluck-organizer/internal/handler"
	"github.com/iliyamo/potluck-organizer/internal/middleware"
)

// RegisterPublic registers the anonymous attendee routes under /p. The
// view route sits behind the Redis response cache; the two mutation
// routes sit behind the token-bucket rate limiter so a misbehaving
// client cannot burn through an item's claim slots.
func RegisterPublic(e *echo.Echo, h *handler.PublicHandler, cacheCfg config.ViewCacheConfig, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/p/:slug", h.ViewPotluck, middleware.NewPotluckViewCache(cacheCfg, rdb))

	// Both mutation routes use :id at the same position; the create route
	// reads it as an item id, the delete route as a claim id.
	limited := middleware.NewTokenBucket(rlCfg, rdb)
	e.POST("/p/:slug/claim/:id", h.ClaimItem, limited)
	e.POST("/p/:slug/claim/:id/delete", h.DeleteOwnClaim, limited)
}
