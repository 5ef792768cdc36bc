// Package handler defines the HTTP handlers, split by audience: admin
// session management, admin mutations over the potluck tree, and the
// public attendee surface.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/potluck-organizer/internal/allocation"
	"github.com/iliyamo/potluck-organizer/internal/auth"
	"github.com/iliyamo/potluck-organizer/internal/repository"
)

// Invalidator evicts a potluck's cached public view after a mutation and
// fans the eviction out to other instances. Wired in cmd/server; a nil
// Invalidator disables invalidation (no cache configured).
type Invalidator func(ctx context.Context, slug string)

// writeError translates domain errors into the HTTP contract: unknown
// entities are 404, capability failures 403, capacity/content/validation
// failures 400 with an actionable message, anything else a generic 500.
func writeError(c echo.Context, err error) error {
	var ve *allocation.ValidationError
	switch {
	case errors.Is(err, repository.ErrPotluckNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrItemNotFound),
		errors.Is(err, repository.ErrClaimNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, allocation.ErrCapacityExceeded):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity exceeded"})
	case errors.Is(err, allocation.ErrMissingDetails):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "please provide details about what you're bringing for this item"})
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// pathID parses a numeric path parameter; zero is never a valid id.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// formInt parses an optional integer form field; empty yields def.
func formInt(c echo.Context, name string, def int) (int, bool) {
	v := strings.TrimSpace(c.FormValue(name))
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// formBool interprets the usual checkbox/boolean form spellings.
func formBool(c echo.Context, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.FormValue(name))) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
