package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/potluck-organizer/internal/handler"
	"github.com/iliyamo/potluck-organizer/internal/middleware"
)

// RegisterAdmin registers every admin mutation under /admin behind the
// session-cookie middleware. All entity routes resolve the potluck by its
// slug; child entities are addressed by id within that potluck.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, sessionSecret string) {
	g := e.Group("/admin", middleware.AdminAuth(sessionSecret))

	g.GET("/dashboard", h.Dashboard)
	g.GET("/create", h.CreateForm)
	g.POST("/create", h.CreatePotluck)

	g.GET("/edit/:slug", h.EditPotluck)
	g.POST("/edit/:slug", h.UpdatePotluck)
	g.POST("/delete/:slug", h.DeletePotluck)

	g.POST("/edit/:slug/add-category", h.AddCategory)
	g.POST("/edit/:slug/category/:id/update", h.UpdateCategory)
	g.POST("/edit/:slug/category/:id/delete", h.DeleteCategory)
	g.POST("/edit/:slug/category/:id/add-item", h.AddItem)

	g.POST("/edit/:slug/item/:id/update", h.UpdateItem)
	g.POST("/edit/:slug/item/:id/delete", h.DeleteItem)

	g.POST("/edit/:slug/claim/:id/delete", h.DeleteClaim)
}
