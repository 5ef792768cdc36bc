package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/potluck-organizer/internal/allocation"
)

// Item management. Items are addressed through the owning potluck's slug
// like categories; the capacity ceiling of the parent category is
// enforced by the engine atomically with the insert.

// AddItem handles POST /admin/edit/:slug/category/:id/add-item. When the
// category is at max_items the item is not created and the caller gets a
// 400 capacity error.
func (h *AdminHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	p, err := h.PotluckRepo.GetBySlug(ctx, slug)
	if err != nil {
		return writeError(c, err)
	}
	categoryID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cat, err := h.CategoryRepo.GetByIDForPotluck(ctx, categoryID, p.ID)
	if err != nil {
		return writeError(c, err)
	}
	in, ok := itemInput(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid form values"})
	}
	in.CreatedByAdmin = true
	if _, err := h.Engine.CreateItem(ctx, cat.ID, in); err != nil {
		return writeError(c, err)
	}
	h.invalidate(c, slug)
	return c.Redirect(http.StatusSeeOther, "/admin/edit/"+slug)
}

// UpdateItem handles POST /admin/edit/:slug/item/:id/update.
func (h *AdminHandler) UpdateItem(c echo.Context) error {
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
	it, err := h.ItemRepo.GetByIDForPotluck(ctx, id, p.ID)
	if err != nil {
		return writeError(c, err)
	}
	in, ok := itemInput(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid form values"})
	}
	if _, err := h.Engine.UpdateItem(ctx, it, in); err != nil {
		return writeError(c, err)
	}
	h.invalidate(c, slug)
	return c.Redirect(http.StatusSeeOther, "/admin/edit/"+slug)
}

// DeleteItem handles POST /admin/edit/:slug/item/:id/delete. The cascade
// removes the item's claims.
func (h *AdminHandler) DeleteItem(c echo.Context) error {
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
	if _, err := h.ItemRepo.GetByIDForPotluck(ctx, id, p.ID); err != nil {
		return writeError(c, err)
	}
	if err := h.ItemRepo.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	h.invalidate(c, slug)
	return c.Redirect(http.StatusSeeOther, "/admin/edit/"+slug)
}

// itemInput collects the item form fields.
func itemInput(c echo.Context) (allocation.ItemInput, bool) {
	claimLimit, ok := formInt(c, "claim_limit", 0)
	if !ok {
		return allocation.ItemInput{}, false
	}
	return allocation.ItemInput{
		Name:           c.FormValue("item_name"),
		Description:    c.FormValue("item_description"),
		ClaimLimit:     claimLimit,
		RequireDetails: formBool(c, "require_details"),
	}, true
}
