package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/potluck-organizer/internal/allocation"
)

// Category management. Every route resolves the potluck by slug first;
// a category id that does not belong to that potluck is a 404, never a
// cross-tenant mutation.

// AddCategory handles POST /admin/edit/:slug/add-category.
func (h *AdminHandler) AddCategory(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	p, err := h.PotluckRepo.GetBySlug(ctx, slug)
	if err != nil {
		return writeError(c, err)
	}
	in, ok := categoryInput(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid form values"})
	}
	if _, err := h.Engine.CreateCategory(ctx, p.ID, in); err != nil {
		return writeError(c, err)
	}
	h.invalidate(c, slug)
	return c.Redirect(http.StatusSeeOther, "/admin/edit/"+slug)
}

// UpdateCategory handles POST /admin/edit/:slug/category/:id/update.
func (h *AdminHandler) UpdateCategory(c echo.Context) error {
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
	cat, err := h.CategoryRepo.GetByIDForPotluck(ctx, id, p.ID)
	if err != nil {
		return writeError(c, err)
	}
	in, ok := categoryInput(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid form values"})
	}
	if _, err := h.Engine.UpdateCategory(ctx, cat, in); err != nil {
		return writeError(c, err)
	}
	h.invalidate(c, slug)
	return c.Redirect(http.StatusSeeOther, "/admin/edit/"+slug)
}

// DeleteCategory handles POST /admin/edit/:slug/category/:id/delete. The
// cascade removes the category's items and their claims.
func (h *AdminHandler) DeleteCategory(c echo.Context) error {
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
	if err := h.CategoryRepo.Delete(ctx, id, p.ID); err != nil {
		return writeError(c, err)
	}
	h.invalidate(c, slug)
	return c.Redirect(http.StatusSeeOther, "/admin/edit/"+slug)
}

// categoryInput collects the category form fields; numeric fields default
// when omitted so the engine can apply its own range checks.
func categoryInput(c echo.Context) (allocation.CategoryInput, bool) {
	maxItems, ok := formInt(c, "max_items", 0)
	if !ok {
		return allocation.CategoryInput{}, false
	}
	displayOrder, ok := formInt(c, "display_order", 0)
	if !ok {
		return allocation.CategoryInput{}, false
	}
	return allocation.CategoryInput{
		Name:         c.FormValue("category_name"),
		Description:  c.FormValue("category_description"),
		MaxItems:     maxItems,
		DisplayOrder: displayOrder,
	}, true
}
