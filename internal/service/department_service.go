package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AadilJabar19/ERP-sub002/internal/cache"
	"github.com/AadilJabar19/ERP-sub002/internal/domain"
	"github.com/AadilJabar19/ERP-sub002/internal/events"
	"github.com/AadilJabar19/ERP-sub002/internal/repository"
)

// DepartmentService manages departments and their manager references.
type DepartmentService struct {
	departments repository.DepartmentRepository
	employees   repository.EmployeeRepository
	cache       cache.DepartmentCache
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// DepartmentDependencies encapsulates collaborators required by the service.
// Cache and Dispatcher are optional.
type DepartmentDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	EmployeeRepo   repository.EmployeeRepository
	Cache          cache.DepartmentCache
	Dispatcher     events.Dispatcher
}

// DepartmentView is a department with its manager resolved when possible.
type DepartmentView struct {
	Department *domain.Department
	Manager    *domain.Employee
}

// NewDepartmentService constructs the service.
func NewDepartmentService(deps DepartmentDependencies, logger *zap.Logger) *DepartmentService {
	c := deps.Cache
	if c == nil {
		c = cache.NewDepartmentCache(nil, 0)
	}
	return &DepartmentService{
		departments: deps.DepartmentRepo,
		employees:   deps.EmployeeRepo,
		cache:       c,
		dispatcher:  deps.Dispatcher,
		logger:      logger.Named("department_service"),
	}
}

// ParseID converts a hex department or employee id.
func ParseID(field, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, domain.NewFieldError(field, domain.ErrInvalidID, raw)
	}
	return id, nil
}

// Create validates and stores a new department.
func (s *DepartmentService) Create(ctx context.Context, actor *events.Actor, dept *domain.Department) (*domain.Department, error) {
	dept.ApplyDefaults()
	if err := dept.Validate(); err != nil {
		return nil, err
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}

	s.publish(ctx, events.NewDepartmentEvent(events.EventDepartmentCreated, dept.ID.Hex(), actor,
		events.DepartmentSnapshotPayload{Department: dept}))
	return dept, nil
}

// Get loads a department, resolving its manager. A manager that cannot be found is
// left empty; it never fails the lookup.
func (s *DepartmentService) Get(ctx context.Context, rawID string) (*DepartmentView, error) {
	id, err := ParseID("id", rawID)
	if err != nil {
		return nil, err
	}

	dept, hit, err := s.cache.Get(ctx, id.Hex())
	if err != nil {
		s.logger.Warn("department cache read failed", zap.String("department_id", id.Hex()), zap.Error(err))
	}
	if !hit {
		dept, err = s.departments.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Fill(ctx, dept); err != nil {
			s.logger.Warn("department cache fill failed", zap.String("department_id", id.Hex()), zap.Error(err))
		}
	}

	return &DepartmentView{Department: dept, Manager: s.lookupManager(ctx, dept)}, nil
}

// List returns a page of departments and the total number matching the filter.
func (s *DepartmentService) List(ctx context.Context, filter domain.DepartmentFilter) ([]domain.Department, int64, error) {
	filter.Normalize()
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, domain.NewFieldError("status", domain.ErrInvalidStatus, string(*filter.Status))
	}
	return s.departments.List(ctx, filter)
}

// Update applies a partial update and returns the stored result.
func (s *DepartmentService) Update(ctx context.Context, actor *events.Actor, rawID string, update domain.DepartmentUpdate) (*domain.Department, error) {
	id, err := ParseID("id", rawID)
	if err != nil {
		return nil, err
	}
	update.Normalize()
	if err := update.Validate(); err != nil {
		return nil, err
	}

	dept, err := s.departments.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("update department: %w", err)
	}
	s.refresh(ctx, dept)

	s.publish(ctx, events.NewDepartmentEvent(events.EventDepartmentUpdated, id.Hex(), actor,
		events.DepartmentSnapshotPayload{Department: dept}))
	return dept, nil
}

// Delete removes a department.
func (s *DepartmentService) Delete(ctx context.Context, actor *events.Actor, rawID string) error {
	id, err := ParseID("id", rawID)
	if err != nil {
		return err
	}
	if err := s.departments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	s.invalidate(ctx, id)

	s.publish(ctx, events.NewDepartmentEvent(events.EventDepartmentDeleted, id.Hex(), actor, nil))
	return nil
}

func (s *DepartmentService) lookupManager(ctx context.Context, dept *domain.Department) *domain.Employee {
	if dept.ManagerID == nil || s.employees == nil {
		return nil
	}
	emp, err := s.employees.GetByID(ctx, *dept.ManagerID)
	switch {
	case errors.Is(err, domain.ErrEmployeeNotFound):
		s.logger.Debug("department manager not found",
			zap.String("department_id", dept.ID.Hex()),
			zap.String("manager_id", dept.ManagerID.Hex()))
		return nil
	case err != nil:
		s.logger.Warn("department manager lookup failed",
			zap.String("department_id", dept.ID.Hex()),
			zap.Error(err))
		return nil
	}
	return emp
}

// refresh overwrites the cached entry with the committed document so a concurrent
// Get cannot leave an older snapshot behind.
func (s *DepartmentService) refresh(ctx context.Context, dept *domain.Department) {
	err := s.cache.Set(ctx, dept)
	if err == nil {
		return
	}
	s.logger.Warn("department cache write failed", zap.String("department_id", dept.ID.Hex()), zap.Error(err))
	s.invalidate(ctx, dept.ID)
}

func (s *DepartmentService) invalidate(ctx context.Context, id primitive.ObjectID) {
	if err := s.cache.Invalidate(ctx, id.Hex()); err != nil {
		s.logger.Warn("department cache invalidation failed", zap.String("department_id", id.Hex()), zap.Error(err))
	}
}

// publish never fails the write that triggered it.
func (s *DepartmentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("department event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("department_id", event.DepartmentID),
			zap.Error(err))
	}
}
