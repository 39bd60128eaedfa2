package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/medicity-console/internal/events"
	"github.com/spec-kit/medicity-console/internal/observability"
)

// AuditService records session lifecycle events in the audit log and metrics.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleLoginSucceeded)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
	a.dispatcher.Subscribe(events.EventLoggedOut, a.handleLoggedOut)
	a.dispatcher.Subscribe(events.EventRestoreDiscarded, a.handleRestoreDiscarded)
}

func (a *AuditService) handleLoginSucceeded(_ context.Context, event events.Event) error {
	a.metrics.RecordSessionEvent(string(event.Type))
	fields := a.baseFields(event)
	if payload, ok := event.Payload.(events.LoginSucceededPayload); ok {
		fields = append(fields,
			zap.String("subject_id", payload.SubjectID.String()),
			zap.String("email", payload.Email),
			zap.String("role", string(payload.Role)),
		)
	}
	a.logger.Info("LoginSucceeded", fields...)
	return nil
}

func (a *AuditService) handleLoginFailed(_ context.Context, event events.Event) error {
	a.metrics.RecordSessionEvent(string(event.Type))
	fields := a.baseFields(event)
	if payload, ok := event.Payload.(events.LoginFailedPayload); ok {
		fields = append(fields,
			zap.String("identifier", payload.Identifier),
			zap.String("reason", payload.Reason),
		)
	}
	a.logger.Warn("LoginFailed", fields...)
	return nil
}

func (a *AuditService) handleLoggedOut(_ context.Context, event events.Event) error {
	a.metrics.RecordSessionEvent(string(event.Type))
	fields := a.baseFields(event)
	if payload, ok := event.Payload.(events.LoggedOutPayload); ok && payload.SubjectID != "" {
		fields = append(fields, zap.String("subject_id", payload.SubjectID.String()))
	}
	a.logger.Info("LoggedOut", fields...)
	return nil
}

func (a *AuditService) handleRestoreDiscarded(_ context.Context, event events.Event) error {
	a.metrics.RecordSessionEvent(string(event.Type))
	fields := a.baseFields(event)
	if payload, ok := event.Payload.(events.RestoreDiscardedPayload); ok {
		fields = append(fields, zap.String("reason", payload.Reason))
	}
	a.logger.Warn("RestoreDiscarded", fields...)
	return nil
}

func (a *AuditService) baseFields(event events.Event) []zap.Field {
	return []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("client_id", event.ClientID),
		zap.Time("at", event.Timestamp),
	}
}
