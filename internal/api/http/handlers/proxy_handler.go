package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/medicity-console/pkg/util"
)

const apiPrefix = "/api"

// APIProxyHandler forwards /api calls to the hospital backend with the
// session's bearer token attached.
type APIProxyHandler struct {
	backendURL string
	logger     *zap.Logger
}

// NewAPIProxyHandler constructs handler.
func NewAPIProxyHandler(backendURL string, logger *zap.Logger) *APIProxyHandler {
	return &APIProxyHandler{backendURL: strings.TrimRight(backendURL, "/"), logger: logger}
}

// Forward handles every method under /api. Backend responses, 401 included,
// are passed back unchanged.
func (h *APIProxyHandler) Forward(c *fiber.Ctx) error {
	store, err := requestStore(c)
	if err != nil {
		return err
	}
	sess := store.Current()
	if sess == nil {
		return apperrors.NewUnauthorized("no active session")
	}

	target := h.backendURL + strings.TrimPrefix(c.OriginalURL(), apiPrefix)
	c.Request().Header.DelAllCookies()
	c.Request().Header.Set(fiber.HeaderAuthorization, sess.AuthorizationHeader())

	if err := proxy.Do(c, target); err != nil {
		h.logger.Warn("backend call failed", zap.String("target", target), zap.Error(err))
		return apperrors.NewBackendUnavailable(err)
	}
	c.Response().Header.Del(fiber.HeaderServer)
	return nil
}
