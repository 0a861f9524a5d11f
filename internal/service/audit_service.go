package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/AadilJabar19/ERP-sub002/internal/events"
)

// AuditService records department changes in the service log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventDepartmentCreated, a.handleDepartmentCreated)
	a.dispatcher.Subscribe(events.EventDepartmentUpdated, a.handleDepartmentUpdated)
	a.dispatcher.Subscribe(events.EventDepartmentDeleted, a.handleDepartmentDeleted)
}

func (a *AuditService) handleDepartmentCreated(_ context.Context, event events.Event) error {
	a.logger.Info("DepartmentCreated", a.fields(event)...)
	return nil
}

func (a *AuditService) handleDepartmentUpdated(_ context.Context, event events.Event) error {
	a.logger.Info("DepartmentUpdated", a.fields(event)...)
	return nil
}

func (a *AuditService) handleDepartmentDeleted(_ context.Context, event events.Event) error {
	a.logger.Info("DepartmentDeleted", a.fields(event)...)
	return nil
}

func (a *AuditService) fields(event events.Event) []zap.Field {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("department_id", event.DepartmentID),
		zap.Time("timestamp", event.Timestamp),
	}
	if event.Actor != nil {
		fields = append(fields,
			zap.String("actor", event.Actor.SubjectID),
			zap.String("role", event.Actor.Role))
	}
	if snapshot, ok := event.Payload.(events.DepartmentSnapshotPayload); ok && snapshot.Department != nil {
		fields = append(fields,
			zap.String("name", snapshot.Department.Name),
			zap.String("code", snapshot.Department.Code),
			zap.String("status", string(snapshot.Department.Status)))
	}
	return fields
}
