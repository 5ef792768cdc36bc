package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DeleteClaim handles POST /admin/edit/:slug/claim/:id/delete. The admin
// capability is unconditional: any claim under the potluck can be
// removed, including legacy claims without an ownership token that the
// attendee self-service path can never touch.
func (h *AdminHandler) DeleteClaim(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	p, err := h.PotluckRepo.GetBySlug(ctx, slug)
	if err != nil {
		return writeError(c, err)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.ClaimRepo.GetByIDForPotluck(ctx, id, p.ID); err != nil {
		return writeError(c, err)
	}
	if err := h.ClaimRepo.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	h.invalidate(c, slug)
	return c.Redirect(http.StatusSeeOther, "/admin/edit/"+slug)
}
