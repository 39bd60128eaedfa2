package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/medicity-console/internal/auth"
	"github.com/spec-kit/medicity-console/internal/domain"
	"github.com/spec-kit/medicity-console/internal/events"
	"github.com/spec-kit/medicity-console/internal/repository"
	apperrors "github.com/spec-kit/medicity-console/pkg/util"
)

// Authenticator exchanges credentials for a bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, identifier, secret string) (string, error)
}

// Store is the session of one browser client: the token and identity kept in
// durable storage plus the copy that is active for the current request.
//
// The active session is only ever replaced as a whole, through Login, Logout
// and Restore.
type Store struct {
	clientID   string
	storage    repository.ClientStorage
	auth       Authenticator
	dispatcher events.Dispatcher
	logger     *zap.Logger

	current  atomic.Pointer[domain.Session]
	restored atomic.Bool
}

// ClientID returns the browser client the store belongs to.
func (s *Store) ClientID() string {
	return s.clientID
}

// Current returns the active session or nil.
func (s *Store) Current() *domain.Session {
	return s.current.Load()
}

// Identity returns the active identity or nil.
func (s *Store) Identity() *domain.Identity {
	if sess := s.current.Load(); sess != nil {
		return &sess.Identity
	}
	return nil
}

// Login authenticates against the backend and, on success, persists and
// activates the new session. No failure touches the stored or active session.
//
// Callers navigate to the role's landing page only after Login returns, so the
// navigation always sees the committed session.
func (s *Store) Login(ctx context.Context, identifier, secret string) (*domain.Session, error) {
	token, err := s.auth.Authenticate(ctx, identifier, secret)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.loginFailed(ctx, identifier, "INVALID_CREDENTIALS")
			return nil, apperrors.NewInvalidCredentials()
		}
		s.logger.Warn("authentication endpoint failed", zap.String("client_id", s.clientID), zap.Error(err))
		s.loginFailed(ctx, identifier, "AUTH_UNAVAILABLE")
		return nil, apperrors.NewUpstreamUnavailable(err)
	}

	identity, err := auth.DecodeIdentity(token)
	if err != nil {
		s.logger.Warn("authentication endpoint returned an unreadable token", zap.String("client_id", s.clientID), zap.Error(err))
		s.loginFailed(ctx, identifier, "MALFORMED_TOKEN")
		return nil, apperrors.NewMalformedToken(err)
	}

	payload, err := json.Marshal(identity)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.storage.Save(ctx, s.clientID, map[string]string{
		domain.StorageKeyToken: token,
		domain.StorageKeyUser:  string(payload),
	}); err != nil {
		return nil, apperrors.NewServiceUnavailable("session storage unavailable", err)
	}

	sess := &domain.Session{Token: token, Identity: *identity}
	s.current.Store(sess)

	s.publish(ctx, events.EventLoginSucceeded, events.LoginSucceededPayload{
		SubjectID: identity.SubjectID,
		Email:     identity.Email,
		Role:      identity.Role,
	})
	return sess, nil
}

// Logout forgets the stored and active session. Logging out without a session
// is fine.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.storage.Delete(ctx, s.clientID, domain.StorageKeyToken, domain.StorageKeyUser); err != nil {
		return apperrors.NewServiceUnavailable("session storage unavailable", err)
	}
	previous := s.current.Swap(nil)

	payload := events.LoggedOutPayload{}
	if previous != nil {
		payload.SubjectID = previous.Identity.SubjectID
	}
	s.publish(ctx, events.EventLoggedOut, payload)
	return nil
}

// Restore activates the session found in durable storage. It runs once per
// store; later calls do nothing. The backend is not contacted and the token's
// expiry is not checked.
//
// Stored data that cannot form a session is removed and the client is left
// logged out. Only storage failures are returned.
func (s *Store) Restore(ctx context.Context) error {
	if !s.restored.CompareAndSwap(false, true) {
		return nil
	}

	values, err := s.storage.Load(ctx, s.clientID, domain.StorageKeyToken, domain.StorageKeyUser)
	if err != nil {
		s.restored.Store(false)
		return apperrors.NewServiceUnavailable("session storage unavailable", err)
	}
	if len(values) == 0 {
		return nil
	}

	sess, reason := storedSession(values)
	if sess == nil {
		s.logger.Warn("discarding stored session", zap.String("client_id", s.clientID), zap.String("reason", reason))
		if err := s.storage.Delete(ctx, s.clientID, domain.StorageKeyToken, domain.StorageKeyUser); err != nil {
			s.logger.Warn("failed to clear stored session", zap.String("client_id", s.clientID), zap.Error(err))
		}
		s.publish(ctx, events.EventRestoreDiscarded, events.RestoreDiscardedPayload{Reason: reason})
		return nil
	}

	s.current.Store(sess)
	return nil
}

func storedSession(values map[string]string) (*domain.Session, string) {
	token := values[domain.StorageKeyToken]
	raw, hasUser := values[domain.StorageKeyUser]
	switch {
	case token == "":
		return nil, "token missing"
	case !hasUser:
		return nil, "user missing"
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil, "user not decodable"
	}
	if identity.Role == "" {
		return nil, "user has no role"
	}
	return &domain.Session{Token: token, Identity: identity}, ""
}

func (s *Store) loginFailed(ctx context.Context, identifier, reason string) {
	s.publish(ctx, events.EventLoginFailed, events.LoginFailedPayload{Identifier: identifier, Reason: reason})
}

func (s *Store) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ClientID:  s.clientID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Debug("session event handler failed", zap.String("type", string(eventType)), zap.Error(err))
	}
}
