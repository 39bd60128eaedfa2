package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/medicity-console/internal/domain"
	apperrors "github.com/spec-kit/medicity-console/pkg/util"
)

func TestClientCookieIssuesAndKeepsIDs(t *testing.T) {
	app := fiber.New()
	app.Use(ClientCookie(CookieOptions{Name: "mc"}))
	app.Get("/", func(c *fiber.Ctx) error {
		id, ok := ClientIDFromContext(c)
		assert.True(t, ok)
		return c.SendString(id)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "mc", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	_, err = uuid.Parse(cookies[0].Value)
	assert.NoError(t, err)

	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "mc", Value: existing})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, resp.Cookies())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "mc", Value: "not-a-uuid"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Len(t, resp.Cookies(), 1)
	assert.NotEqual(t, "not-a-uuid", resp.Cookies()[0].Value)
}

func TestNavigationGuardMiddleware(t *testing.T) {
	var current *domain.Identity
	var observed []Decision

	app := fiber.New()
	app.Use(NavigationGuard(DefaultRoleRoutes(), func(*fiber.Ctx) *domain.Identity { return current }, func(d Decision) {
		observed = append(observed, d)
	}))
	app.Get("/admin/*", func(c *fiber.Ctx) error { return c.SendString("screen") })
	app.Get("/admin", func(c *fiber.Ctx) error { return c.SendString("dashboard") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/reports", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, LoginPath, resp.Header.Get("Location"))

	current = identityWithRole(domain.RoleDoctor)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/admin/reports/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/admin/doctors", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, AppointmentsPath, resp.Header.Get("Location"))

	assert.Equal(t, []Decision{RedirectTo(LoginPath), Render(), RedirectTo(AppointmentsPath)}, observed)
}

func TestRequireIdentity(t *testing.T) {
	var current *domain.Identity
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		domainErr := apperrors.ToDomainError(err)
		return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
	}})
	app.Use(RequireIdentity(func(*fiber.Ctx) *domain.Identity { return current }))
	app.Get("/api/x", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	current = identityWithRole(domain.RoleAdmin)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/", NormalizePath("/"))
	assert.Equal(t, "/", NormalizePath("//"))
	assert.Equal(t, "/admin", NormalizePath("/admin/"))
	assert.Equal(t, "/admin/reports", NormalizePath("/admin/reports"))
}
