package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/medicity-console/internal/api/dto"
	"github.com/spec-kit/medicity-console/internal/auth"
	"github.com/spec-kit/medicity-console/internal/session"
	apperrors "github.com/spec-kit/medicity-console/pkg/util"
)

// SessionHandler exposes sign-in, sign-out and the current session.
type SessionHandler struct{}

// NewSessionHandler constructs handler.
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// LoginScreen handles GET /login once the guard has let the visitor through.
func (h *SessionHandler) LoginScreen(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": dto.ScreenResponse{Screen: "login", Path: auth.LoginPath, Title: "Sign in"},
	})
}

// Login handles POST /login. The redirect to the role's landing screen is only
// sent once the new session is committed.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	store, err := requestStore(c)
	if err != nil {
		return err
	}

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		details := map[string]any{}
		if req.Email == "" {
			details["email"] = "required"
		}
		if req.Password == "" {
			details["password"] = "required"
		}
		return apperrors.NewValidationError("email and password required", details)
	}

	sess, err := store.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	target := auth.DefaultRoute(sess.Identity.Role)
	if target == "" {
		return c.JSON(fiber.Map{
			"data": dto.LoginResponse{User: dto.NewUserResponse(&sess.Identity)},
		})
	}
	return c.Redirect(target, http.StatusSeeOther)
}

// Logout handles POST /logout. It always lands on the login screen.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	store, err := requestStore(c)
	if err != nil {
		return err
	}
	if err := store.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.Redirect(auth.LoginPath, http.StatusSeeOther)
}

// Current handles GET /session.
func (h *SessionHandler) Current(c *fiber.Ctx) error {
	identity := session.IdentityFromContext(c)
	if identity == nil {
		return apperrors.NewUnauthorized("no active session")
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserResponse(identity)},
	})
}

func requestStore(c *fiber.Ctx) (*session.Store, error) {
	store, ok := session.FromContext(c)
	if !ok {
		return nil, apperrors.NewServiceUnavailable("session unavailable", nil)
	}
	return store, nil
}
