package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/potluck-organizer/internal/allocation"
	"github.com/iliyamo/potluck-organizer/internal/auth"
	"github.com/iliyamo/potluck-organizer/internal/repository"
)

// PublicHandler serves the anonymous attendee surface: viewing a potluck
// by its shared slug, claiming items, and deleting one's own claims.
// There is no login; ownership rides on the attendee session cookie.
type PublicHandler struct {
	PotluckRepo *repository.PotluckRepo
	ItemRepo    *repository.ItemRepo
	ClaimRepo   *repository.ClaimRepo
	Engine      *allocation.Engine
	Invalidate  Invalidator
}

// NewPublicHandler constructs a PublicHandler and panics if any required
// dependency is nil. The Invalidator may be nil when no cache is wired.
func NewPublicHandler(potlucks *repository.PotluckRepo, items *repository.ItemRepo, claims *repository.ClaimRepo, engine *allocation.Engine, invalidate Invalidator) *PublicHandler {
	if potlucks == nil || items == nil || claims == nil || engine == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{
		PotluckRepo: potlucks,
		ItemRepo:    items,
		ClaimRepo:   claims,
		Engine:      engine,
		Invalidate:  invalidate,
	}
}

func (h *PublicHandler) invalidate(c echo.Context, slug string) {
	if h.Invalidate != nil {
		h.Invalidate(c.Request().Context(), slug)
	}
}

// ViewPotluck handles GET /p/:slug: the full potluck tree with live claim
// counts. Claims owned by the viewer's session token are marked mine so
// the page can offer a delete control only where it will succeed.
func (h *PublicHandler) ViewPotluck(c echo.Context) error {
	det, err := h.PotluckRepo.GetDetailBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	if token, ok := auth.ReadCookie(c, auth.AttendeeCookieName); ok {
		markOwnClaims(det, token)
	}
	return c.JSON(http.StatusOK, echo.Map{"potluck": det})
}

// ClaimItem handles POST /p/:slug/claim/:id (item id). The first successful
// claim from a browser issues its attendee session cookie; the token is
// stamped onto the claim row so only that browser (plus the admin) can
// remove it later.
func (h *PublicHandler) ClaimItem(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	p, err := h.PotluckRepo.GetBySlug(ctx, slug)
	if err != nil {
		return writeError(c, err)
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	it, err := h.ItemRepo.GetByIDForPotluck(ctx, itemID, p.ID)
	if err != nil {
		return writeError(c, err)
	}

	token, hasToken := auth.ReadCookie(c, auth.AttendeeCookieName)
	if !hasToken {
		token, err = auth.NewAttendeeToken()
		if err != nil {
			return writeError(c, err)
		}
	}

	_, err = h.Engine.CreateClaim(ctx, it, allocation.ClaimInput{
		AttendeeName: c.FormValue("attendee_name"),
		ItemDetails:  c.FormValue("item_details"),
	}, token)
	if err != nil {
		return writeError(c, err)
	}
	if !hasToken {
		// Issue the cookie only after the claim exists; a failed claim
		// leaves the browser tokenless.
		auth.WriteSessionCookie(c, auth.AttendeeCookieName, token, time.Time{})
	}
	h.invalidate(c, slug)
	return c.Redirect(http.StatusSeeOther, "/p/"+slug)
}

// DeleteOwnClaim handles POST /p/:slug/claim/:id/delete (claim id). Both the
// session token and the typed name must match the stored claim; failing
// either check is a 403 and the claim is untouched.
func (h *PublicHandler) DeleteOwnClaim(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")
	p, err := h.PotluckRepo.GetBySlug(ctx, slug)
	if err != nil {
		return writeError(c, err)
	}
	claimID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cl, err := h.ClaimRepo.GetByIDForPotluck(ctx, claimID, p.ID)
	if err != nil {
		return writeError(c, err)
	}
	token, _ := auth.ReadCookie(c, auth.AttendeeCookieName)
	if !auth.CanDeleteClaim(cl, token, c.FormValue("attendee_name")) {
		return writeError(c, auth.ErrForbidden)
	}
	if err := h.ClaimRepo.Delete(ctx, claimID); err != nil {
		return writeError(c, err)
	}
	h.invalidate(c, slug)
	return c.Redirect(http.StatusSeeOther, "/p/"+slug)
}

// markOwnClaims flags every claim in the tree whose stored session token
// equals the viewer's.
func markOwnClaims(det *repository.PotluckDetail, token string) {
	for ci := range det.Categories {
		for ii := range det.Categories[ci].Items {
			claims := det.Categories[ci].Items[ii].Claims
			for li := range claims {
				sid := claims[li].SessionID
				if sid == nil || *sid == "" {
					continue
				}
				if subtle.ConstantTimeCompare([]byte(*sid), []byte(token)) == 1 {
					claims[li].Mine = true
				}
			}
		}
	}
}
