package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/AadilJabar19/ERP-sub002/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDepartmentCreated EventType = "department.created"
	EventDepartmentUpdated EventType = "department.updated"
	EventDepartmentDeleted EventType = "department.deleted"
)

// Actor identifies who triggered an event, when known.
type Actor struct {
	SubjectID string `json:"subject_id,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	DepartmentID string      `json:"department_id"`
	Actor        *Actor      `json:"actor,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload,omitempty"`
}

// NewDepartmentEvent stamps an event for the given department.
func NewDepartmentEvent(eventType EventType, departmentID string, actor *Actor, payload interface{}) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		DepartmentID: departmentID,
		Actor:        actor,
		Timestamp:    time.Now().UTC(),
		Payload:      payload,
	}
}

// DepartmentSnapshotPayload carries the department state after a create or update.
type DepartmentSnapshotPayload struct {
	Department *domain.Department `json:"department"`
}
