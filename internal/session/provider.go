package session

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/medicity-console/internal/auth"
	"github.com/spec-kit/medicity-console/internal/domain"
	"github.com/spec-kit/medicity-console/internal/events"
	"github.com/spec-kit/medicity-console/internal/repository"
	apperrors "github.com/spec-kit/medicity-console/pkg/util"
)

const storeKey = "console_session_store"

// Dependencies encapsulates what every session store needs.
type Dependencies struct {
	Storage    repository.ClientStorage
	Auth       Authenticator
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// Provider hands out session stores. One provider is built at start-up and
// shared by everything that needs a session.
type Provider struct {
	deps Dependencies
}

// NewProvider builds the provider.
func NewProvider(deps Dependencies) *Provider {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Provider{deps: deps}
}

// Open returns the store for clientID with its stored session restored.
func (p *Provider) Open(ctx context.Context, clientID string) (*Store, error) {
	store := &Store{
		clientID:   clientID,
		storage:    p.deps.Storage,
		auth:       p.deps.Auth,
		dispatcher: p.deps.Dispatcher,
		logger:     p.deps.Logger,
	}
	if err := store.Restore(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Middleware opens the requesting client's store before any routing decision
// is made. It must run after auth.ClientCookie.
func Middleware(provider *Provider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID, ok := auth.ClientIDFromContext(c)
		if !ok {
			return apperrors.NewInternalError(errors.New("client id missing from request"))
		}
		store, err := provider.Open(c.UserContext(), clientID)
		if err != nil {
			return err
		}
		c.Locals(storeKey, store)
		return c.Next()
	}
}

// FromContext returns the store opened by Middleware.
func FromContext(c *fiber.Ctx) (*Store, bool) {
	store, ok := c.Locals(storeKey).(*Store)
	return store, ok
}

// IdentityFromContext returns the active identity for the request, or nil.
func IdentityFromContext(c *fiber.Ctx) *domain.Identity {
	store, ok := FromContext(c)
	if !ok {
		return nil
	}
	return store.Identity()
}
