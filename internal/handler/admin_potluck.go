package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/potluck-organizer/internal/allocation"
	"github.com/iliyamo/potluck-organizer/internal/repository"
)

// AdminHandler bundles the repositories and the allocation engine for all
// admin mutations over the potluck tree. AdminAuth middleware has already
// run for every route that reaches these methods.
type AdminHandler struct {
	PotluckRepo  *repository.PotluckRepo
	CategoryRepo *repository.CategoryRepo
	ItemRepo     *repository.ItemRepo
	ClaimRepo    *repository.ClaimRepo
	Engine       *allocation.Engine
	Invalidate   Invalidator
}

// NewAdminHandler constructs an AdminHandler and panics if any required
// dependency is nil. The Invalidator may be nil when no cache is wired.
func NewAdminHandler(potlucks *repository.PotluckRepo, categories *repository.CategoryRepo, items *repository.ItemRepo, claims *repository.ClaimRepo, engine *allocation.Engine, invalidate Invalidator) *AdminHandler {
	if potlucks == nil || categories == nil || items == nil || claims == nil || engine == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{
		PotluckRepo:  potlucks,
		CategoryRepo: categories,
		ItemRepo:     items,
		ClaimRepo:    claims,
		Engine:       engine,
		Invalidate:   invalidate,
	}
}

func (h *AdminHandler) invalidate(c echo.Context, slug string) {
	if h.Invalidate != nil {
		h.Invalidate(c.Request().Context(), slug)
	}
}

// Dashboard handles GET /admin/dashboard: every potluck ordered
// most-recent first, each with its aggregate category/item/claim counts.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	rows, err := h.PotluckRepo.ListDashboard(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if rows == nil {
		rows = []repository.DashboardRow{}
	}
	return c.JSON(http.StatusOK, echo.Map{"potlucks": rows})
}

// CreateForm handles GET /admin/create. There is no server-side state to
// prepare for the form; the endpoint exists so the create page has an
// addressable admin-gated route.
func (h *AdminHandler) CreateForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"is_admin": true})
}

// CreatePotluck handles POST /admin/create. A fresh unique slug is
// assigned by the engine; on success the browser is redirected to the
// edit page to start adding categories.
func (h *AdminHandler) CreatePotluck(c echo.Context) error {
	p, err := h.Engine.CreatePotluck(c.Request().Context(), allocation.PotluckInput{
		Name:        c.FormValue("potluck_name"),
		Description: c.FormValue("potluck_description"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/admin/edit/"+p.URLSlug)
}

// EditPotluck handles GET /admin/edit/:slug: the full potluck tree as the
// edit page needs it, identical in shape to the public view aggregate.
func (h *AdminHandler) EditPotluck(c echo.Context) error {
	det, err := h.PotluckRepo.GetDetailBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"potluck": det, "is_admin": true})
}

// UpdatePotluck handles POST /admin/edit/:slug and updates the potluck's
// name and description.
func (h *AdminHandler) UpdatePotluck(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	p, err := h.PotluckRepo.GetBySlug(ctx, slug)
	if err != nil {
		return writeError(c, err)
	}
	err = h.Engine.UpdatePotluck(ctx, p, allocation.PotluckInput{
		Name:        c.FormValue("potluck_name"),
		Description: c.FormValue("potluck_description"),
	})
	if err != nil {
		return writeError(c, err)
	}
	h.invalidate(c, slug)
	return c.Redirect(http.StatusSeeOther, "/admin/edit/"+slug)
}

// DeletePotluck handles POST /admin/delete/:slug. The cascade takes every
// category, item and claim with it.
func (h *AdminHandler) DeletePotluck(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	p, err := h.PotluckRepo.GetBySlug(ctx, slug)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.PotluckRepo.Delete(ctx, p.ID); err != nil {
		return writeError(c, err)
	}
	h.invalidate(c, slug)
	return c.Redirect(http.StatusSeeOther, "/")
}
