package worker

import (
	"github.com/AadilJabar19/ERP-sub002/internal/events"
	"github.com/AadilJabar19/ERP-sub002/internal/service"
)

// StartEventWorkers registers the audit log handlers and, when configured, the
// Kafka publisher on the dispatcher.
func StartEventWorkers(dispatcher events.Dispatcher, audit *service.AuditService, publisher *events.KafkaPublisher) {
	if audit != nil {
		audit.RegisterHandlers()
	}
	if dispatcher != nil && publisher != nil {
		events.SubscribeAll(dispatcher, publisher.Handle)
	}
}
