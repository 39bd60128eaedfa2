package events

import (
	"time"

	"github.com/spec-kit/medicity-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginSucceeded   EventType = "session.login_succeeded"
	EventLoginFailed      EventType = "session.login_failed"
	EventLoggedOut        EventType = "session.logged_out"
	EventRestoreDiscarded EventType = "session.restore_discarded"
)

// Event represents a session lifecycle event for one browser client.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ClientID  string      `json:"client_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LoginSucceededPayload payload.
type LoginSucceededPayload struct {
	SubjectID domain.ID   `json:"subject_id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
}

// LoginFailedPayload payload. Reason is the error code surfaced to the login screen.
type LoginFailedPayload struct {
	Identifier string `json:"identifier"`
	Reason     string `json:"reason"`
}

// LoggedOutPayload payload; SubjectID is empty when no session was active.
type LoggedOutPayload struct {
	SubjectID domain.ID `json:"subject_id,omitempty"`
}

// RestoreDiscardedPayload payload.
type RestoreDiscardedPayload struct {
	Reason string `json:"reason"`
}
