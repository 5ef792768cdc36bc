package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/potluck-organizer/internal/allocation"
	"github.com/iliyamo/potluck-organizer/internal/auth"
	"github.com/iliyamo/potluck-organizer/internal/config"
	"github.com/iliyamo/potluck-organizer/internal/handler"
	"github.com/iliyamo/potluck-organizer/internal/router"
	"github.com/iliyamo/potluck-organizer/internal/slug"
	"github.com/iliyamo/potluck-organizer/internal/testutil"
)

const (
	testAdminPassword = "potluck-secret"
	testSessionSecret = "test-session-secret"
)

// app is a fully wired application over an in-memory database, with the
// cache and rate limiter disabled.
type app struct {
	e     *echo.Echo
	repos testutil.Repos
}

func newApp(t *testing.T) *app {
	t.Helper()
	r := testutil.NewRepos(testutil.OpenDB(t))
	engine := allocation.NewEngine(r.Potlucks, r.Categories, r.Items, r.Claims, slug.New(r.Potlucks))

	hash, err := auth.HashPassword(testAdminPassword, 4)
	require.NoError(t, err)

	e := echo.New()
	router.RegisterRoutes(e, handler.NewAuthHandler(hash, testSessionSecret))
	router.RegisterAdmin(e, handler.NewAdminHandler(r.Potlucks, r.Categories, r.Items, r.Claims, engine, nil), testSessionSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(r.Potlucks, r.Items, r.Claims, engine, nil), config.ViewCacheConfig{}, config.RateLimitConfig{}, nil)
	return &app{e: e, repos: r}
}

func (a *app) do(method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// login performs an admin login and returns the session cookie.
func (a *app) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := a.do(http.MethodPost, "/admin/login", url.Values{"password": {testAdminPassword}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.AdminCookieName {
			return c
		}
	}
	t.Fatal("no admin session cookie set")
	return nil
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	a := newApp(t)
	rec := a.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIndexReportsAdminState(t *testing.T) {
	a := newApp(t)

	rec := a.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeJSON(t, rec)["is_admin"])

	admin := a.login(t)
	rec = a.do(http.MethodGet, "/", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeJSON(t, rec)["is_admin"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	a := newApp(t)

	rec := a.do(http.MethodPost, "/admin/login", url.Values{"password": {"wrong"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	// Without a session every admin route stays forbidden.
	rec = a.do(http.MethodGet, "/admin/dashboard", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginGrantsDashboardAccess(t *testing.T) {
	a := newApp(t)
	admin := a.login(t)

	rec := a.do(http.MethodGet, "/admin/dashboard", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Contains(t, body, "potlucks")
}

func TestAdminAuthRejectsForgedCookie(t *testing.T) {
	a := newApp(t)
	forged := &http.Cookie{Name: auth.AdminCookieName, Value: "forged-token"}
	rec := a.do(http.MethodGet, "/admin/dashboard", nil, forged)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	a := newApp(t)
	admin := a.login(t)

	rec := a.do(http.MethodGet, "/admin/logout", nil, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.AdminCookieName {
			assert.Negative(t, c.MaxAge)
		}
	}
}

func TestCreatePotluckFlow(t *testing.T) {
	a := newApp(t)
	admin := a.login(t)

	rec := a.do(http.MethodPost, "/admin/create", url.Values{
		"potluck_name":        {"Summer BBQ"},
		"potluck_description": {"bring a dish"},
	}, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	loc := rec.Header().Get(echo.HeaderLocation)
	require.True(t, strings.HasPrefix(loc, "/admin/edit/"))
	s := strings.TrimPrefix(loc, "/admin/edit/")
	assert.True(t, slug.IsValid(s))

	rec = a.do(http.MethodGet, loc, nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	p := body["potluck"].(map[string]interface{})
	assert.Equal(t, "Summer BBQ", p["name"])
}

func TestCreatePotluckValidatesName(t *testing.T) {
	a := newApp(t)
	admin := a.login(t)

	rec := a.do(http.MethodPost, "/admin/create", url.Values{"potluck_name": {"   "}}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// createPotluck provisions a potluck via the HTTP surface and returns its
// slug.
func createPotluck(t *testing.T, a *app, admin *http.Cookie) string {
	t.Helper()
	rec := a.do(http.MethodPost, "/admin/create", url.Values{"potluck_name": {"Summer BBQ"}}, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	return strings.TrimPrefix(rec.Header().Get(echo.HeaderLocation), "/admin/edit/")
}

func TestCategoryAndItemManagement(t *testing.T) {
	a := newApp(t)
	admin := a.login(t)
	s := createPotluck(t, a, admin)

	rec := a.do(http.MethodPost, "/admin/edit/"+s+"/add-category", url.Values{
		"category_name": {"Mains"},
		"max_items":     {"1"},
	}, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	p, err := a.repos.Potlucks.GetDetailBySlug(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, p.Categories, 1)
	catID := p.Categories[0].ID

	itemPath := "/admin/edit/" + s + "/category/" + uitoa(catID) + "/add-item"
	rec = a.do(http.MethodPost, itemPath, url.Values{
		"item_name":   {"Potato salad"},
		"claim_limit": {"2"},
	}, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// max_items is 1: the category is full now.
	rec = a.do(http.MethodPost, itemPath, url.Values{"item_name": {"Bread"}}, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "capacity exceeded", decodeJSON(t, rec)["error"])

	p, err = a.repos.Potlucks.GetDetailBySlug(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, p.Categories[0].Items, 1)
	assert.Equal(t, "Potato salad", p.Categories[0].Items[0].Name)
}

func TestCategoryParentageOverHTTP(t *testing.T) {
	a := newApp(t)
	admin := a.login(t)
	s1 := createPotluck(t, a, admin)
	s2 := createPotluck(t, a, admin)

	rec := a.do(http.MethodPost, "/admin/edit/"+s1+"/add-category", url.Values{"category_name": {"Mains"}}, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	p1, err := a.repos.Potlucks.GetDetailBySlug(context.Background(), s1)
	require.NoError(t, err)
	catID := p1.Categories[0].ID

	// Addressing p1's category through p2's slug must 404.
	rec = a.do(http.MethodPost, "/admin/edit/"+s2+"/category/"+uitoa(catID)+"/delete", nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicViewAndClaimFlow(t *testing.T) {
	a := newApp(t)
	admin := a.login(t)
	s := createPotluck(t, a, admin)

	rec := a.do(http.MethodPost, "/admin/edit/"+s+"/add-category", url.Values{"category_name": {"Mains"}}, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	p, err := a.repos.Potlucks.GetDetailBySlug(context.Background(), s)
	require.NoError(t, err)
	catID := p.Categories[0].ID

	rec = a.do(http.MethodPost, "/admin/edit/"+s+"/category/"+uitoa(catID)+"/add-item", url.Values{
		"item_name":   {"Potato salad"},
		"claim_limit": {"1"},
	}, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	p, err = a.repos.Potlucks.GetDetailBySlug(context.Background(), s)
	require.NoError(t, err)
	itemID := p.Categories[0].Items[0].ID

	rec = a.do(http.MethodGet, "/p/"+s, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// First claim from a fresh browser issues the attendee cookie.
	rec = a.do(http.MethodPost, "/p/"+s+"/claim/"+uitoa(itemID), url.Values{"attendee_name": {"Alice"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	var attendee *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.AttendeeCookieName {
			attendee = c
		}
	}
	require.NotNil(t, attendee)
	assert.Len(t, attendee.Value, 64)

	// claim_limit is 1: the slot is gone.
	rec = a.do(http.MethodPost, "/p/"+s+"/claim/"+uitoa(itemID), url.Values{"attendee_name": {"Bob"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "capacity exceeded", decodeJSON(t, rec)["error"])

	// The owner's view marks the claim as theirs; a stranger's does not.
	rec = a.do(http.MethodGet, "/p/"+s, nil, attendee)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"mine":true`)
	rec = a.do(http.MethodGet, "/p/"+s, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"mine":true`)
}

func TestClaimRequiresDetailsWhenFlagged(t *testing.T) {
	a := newApp(t)
	admin := a.login(t)
	s := createPotluck(t, a, admin)

	rec := a.do(http.MethodPost, "/admin/edit/"+s+"/add-category", url.Values{"category_name": {"Mains"}}, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	p, err := a.repos.Potlucks.GetDetailBySlug(context.Background(), s)
	require.NoError(t, err)

	rec = a.do(http.MethodPost, "/admin/edit/"+s+"/category/"+uitoa(p.Categories[0].ID)+"/add-item", url.Values{
		"item_name":       {"Mystery dish"},
		"require_details": {"on"},
	}, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	p, err = a.repos.Potlucks.GetDetailBySlug(context.Background(), s)
	require.NoError(t, err)
	itemID := p.Categories[0].Items[0].ID

	rec = a.do(http.MethodPost, "/p/"+s+"/claim/"+uitoa(itemID), url.Values{
		"attendee_name": {"Alice"},
		"item_details":  {"   "},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/p/"+s+"/claim/"+uitoa(itemID), url.Values{
		"attendee_name": {"Alice"},
		"item_details":  {"vegan version"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestDeleteOwnClaim(t *testing.T) {
	a := newApp(t)
	admin := a.login(t)
	s := createPotluck(t, a, admin)

	rec := a.do(http.MethodPost, "/admin/edit/"+s+"/add-category", url.Values{"category_name": {"Mains"}}, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	p, err := a.repos.Potlucks.GetDetailBySlug(context.Background(), s)
	require.NoError(t, err)

	rec = a.do(http.MethodPost, "/admin/edit/"+s+"/category/"+uitoa(p.Categories[0].ID)+"/add-item", url.Values{
		"item_name": {"Potato salad"},
	}, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	p, err = a.repos.Potlucks.GetDetailBySlug(context.Background(), s)
	require.NoError(t, err)
	itemID := p.Categories[0].Items[0].ID

	rec = a.do(http.MethodPost, "/p/"+s+"/claim/"+uitoa(itemID), url.Values{"attendee_name": {"Alice"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	var attendee *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.AttendeeCookieName {
			attendee = c
		}
	}
	require.NotNil(t, attendee)

	p, err = a.repos.Potlucks.GetDetailBySlug(context.Background(), s)
	require.NoError(t, err)
	claimID := p.Categories[0].Items[0].Claims[0].ID
	deletePath := "/p/" + s + "/claim/" + uitoa(claimID) + "/delete"

	// No cookie: forbidden. Wrong name: forbidden. Claim survives both.
	rec = a.do(http.MethodPost, deletePath, url.Values{"attendee_name": {"Alice"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = a.do(http.MethodPost, deletePath, url.Values{"attendee_name": {"Bob"}}, attendee)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Right cookie, case-insensitive name match: deleted.
	rec = a.do(http.MethodPost, deletePath, url.Values{"attendee_name": {"  alice "}}, attendee)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	p, err = a.repos.Potlucks.GetDetailBySlug(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, p.Categories[0].Items[0].Claims)
}

func TestAdminDeletesOwnerlessClaim(t *testing.T) {
	a := newApp(t)
	admin := a.login(t)
	s := createPotluck(t, a, admin)

	p, err := a.repos.Potlucks.GetBySlug(context.Background(), s)
	require.NoError(t, err)
	cat := testutil.SeedCategory(t, a.repos, p.ID, 5)
	it := testutil.SeedItem(t, a.repos, cat.ID, 2)
	cl := testutil.SeedClaim(t, a.repos, it.ID, "Alice", "")

	// No token on the claim: the attendee path can never remove it.
	rec := a.do(http.MethodPost, "/p/"+s+"/claim/"+uitoa(cl.ID)+"/delete", url.Values{"attendee_name": {"Alice"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(http.MethodPost, "/admin/edit/"+s+"/claim/"+uitoa(cl.ID)+"/delete", nil, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	det, err := a.repos.Potlucks.GetDetailBySlug(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, det.Categories[0].Items[0].Claims)
}

func TestDeletePotluckCascadesOverHTTP(t *testing.T) {
	a := newApp(t)
	admin := a.login(t)
	s := createPotluck(t, a, admin)

	rec := a.do(http.MethodPost, "/admin/delete/"+s, nil, admin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	rec = a.do(http.MethodGet, "/p/"+s, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViewUnknownSlug(t *testing.T) {
	a := newApp(t)
	rec := a.do(http.MethodGet, "/p/missing1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func uitoa(v uint64) string {
	return strconv.FormatUint(v, 10)
}
