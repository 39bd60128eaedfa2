package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/medicity-console/internal/api/http/handlers"
	"github.com/spec-kit/medicity-console/internal/auth"
	"github.com/spec-kit/medicity-console/internal/observability"
	"github.com/spec-kit/medicity-console/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Session  *handlers.SessionHandler
	Screens  *handlers.ScreensHandler
	API      *handlers.APIProxyHandler
	Sessions *session.Provider
	Routes   auth.RoleRouteMap
	Cookie   auth.CookieOptions
	Metrics  *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Probes and metrics are served without a
// session; everything else opens the client's session first.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	console := app.Group("", auth.ClientCookie(cfg.Cookie), session.Middleware(cfg.Sessions))
	guard := auth.NavigationGuard(cfg.Routes, session.IdentityFromContext, func(d auth.Decision) {
		cfg.Metrics.RecordGuardDecision(string(d.Outcome), d.Target)
	})

	console.Get("/", toLogin)
	console.Get(auth.LoginPath, guard, cfg.Session.LoginScreen)
	console.Post(auth.LoginPath, cfg.Session.Login)
	console.Post("/logout", cfg.Session.Logout)
	console.Get("/session", cfg.Session.Current)

	for _, path := range cfg.Routes.Paths() {
		console.Get(path, guard, cfg.Screens.Render)
	}
	console.Get(auth.AdminRootPath+"/*", guard, cfg.Screens.Render)

	api := console.Group("/api", auth.RequireIdentity(session.IdentityFromContext))
	api.All("/*", cfg.API.Forward)

	console.Get("/*", toLogin)
}

func toLogin(c *fiber.Ctx) error {
	return c.Redirect(auth.LoginPath, fiber.StatusFound)
}
