package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/medicity-console/internal/domain"
	apperrors "github.com/spec-kit/medicity-console/pkg/util"
)

const clientIDKey = "console_client_id"

// CookieOptions controls the browser client cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

// IdentityLookup returns the identity active for the request, or nil.
type IdentityLookup func(c *fiber.Ctx) *domain.Identity

// ClientCookie makes sure every browser carries a client id. Durable session
// storage is namespaced by this id.
func ClientCookie(opts CookieOptions) fiber.Handler {
	name := opts.Name
	if name == "" {
		name = "medicity_client"
	}

	return func(c *fiber.Ctx) error {
		clientID := c.Cookies(name)
		if _, err := uuid.Parse(clientID); err != nil {
			clientID = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     name,
				Value:    clientID,
				Path:     "/",
				Expires:  time.Now().AddDate(1, 0, 0),
				HTTPOnly: true,
				Secure:   opts.Secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(clientIDKey, clientID)
		return c.Next()
	}
}

// ClientIDFromContext returns the client id set by ClientCookie.
func ClientIDFromContext(c *fiber.Ctx) (string, bool) {
	clientID, ok := c.Locals(clientIDKey).(string)
	return clientID, ok && clientID != ""
}

// NavigationGuard evaluates every navigation against the role-route map and
// either hands over to the screen or redirects. observe may be nil.
func NavigationGuard(routes RoleRouteMap, lookup IdentityLookup, observe func(Decision)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := Evaluate(lookup(c), routes, NormalizePath(c.Path()))
		if observe != nil {
			observe(decision)
		}
		if decision.Outcome == OutcomeRedirect {
			return c.Redirect(decision.Target, fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireIdentity rejects API calls made without an active session.
func RequireIdentity(lookup IdentityLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if lookup(c) == nil {
			return apperrors.NewUnauthorized("no active session")
		}
		return c.Next()
	}
}

// NormalizePath drops a trailing slash so /admin/ and /admin are one screen.
func NormalizePath(path string) string {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}
