package handlers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AadilJabar19/ERP-sub002/internal/api/dto"
	"github.com/AadilJabar19/ERP-sub002/internal/auth"
	"github.com/AadilJabar19/ERP-sub002/internal/domain"
	"github.com/AadilJabar19/ERP-sub002/internal/events"
	"github.com/AadilJabar19/ERP-sub002/internal/service"
	apperrors "github.com/AadilJabar19/ERP-sub002/pkg/util/errorutil"
)

// DepartmentService is the subset of service.DepartmentService used by the handler.
type DepartmentService interface {
	Create(ctx context.Context, actor *events.Actor, dept *domain.Department) (*domain.Department, error)
	Get(ctx context.Context, id string) (*service.DepartmentView, error)
	List(ctx context.Context, filter domain.DepartmentFilter) ([]domain.Department, int64, error)
	Update(ctx context.Context, actor *events.Actor, id string, update domain.DepartmentUpdate) (*domain.Department, error)
	Delete(ctx context.Context, actor *events.Actor, id string) error
}

// DepartmentsHandler serves /api/departments.
type DepartmentsHandler struct {
	service DepartmentService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departmentService DepartmentService) *DepartmentsHandler {
	return &DepartmentsHandler{service: departmentService}
}

// List GET /api/departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	var q dto.DepartmentListQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	filter := domain.DepartmentFilter{Search: q.Search, Limit: q.Limit, Offset: q.Offset}
	if strings.TrimSpace(q.Status) != "" {
		status, err := domain.ParseDepartmentStatus(q.Status)
		if err != nil {
			return err
		}
		filter.Status = &status
	}
	filter.Normalize()

	depts, total, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		items = append(items, dto.NewDepartmentResponse(&depts[i], nil))
	}
	return c.JSON(fiber.Map{
		"data": items,
		"meta": dto.ListMeta{Total: total, Limit: filter.Limit, Offset: filter.Offset},
	})
}

// Get GET /api/departments/:id.
func (h *DepartmentsHandler) Get(c *fiber.Ctx) error {
	view, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(view.Department, view.Manager)})
}

// Create POST /api/departments.
func (h *DepartmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	dept := &domain.Department{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Location:    req.Location,
		Status:      normalizeStatus(req.Status),
	}
	if req.Budget != nil {
		dept.Budget = *req.Budget
	}
	if req.Manager != nil && strings.TrimSpace(*req.Manager) != "" {
		id, err := service.ParseID("manager", *req.Manager)
		if err != nil {
			return err
		}
		dept.ManagerID = &id
	}

	created, err := h.service.Create(c.UserContext(), actorFromContext(c), dept)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewDepartmentResponse(created, nil)})
}

// Update PATCH /api/departments/:id.
func (h *DepartmentsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	update := domain.DepartmentUpdate{
		Name:        req.Name,
		Code:        req.Code,
		Budget:      req.Budget,
		Description: req.Description,
		Location:    req.Location,
	}
	if req.Status != nil {
		status := normalizeStatus(*req.Status)
		update.Status = &status
	}
	switch {
	case req.ManagerCleared():
		update.ClearManager = true
	case req.ManagerPresent():
		var raw string
		if err := json.Unmarshal(req.Manager, &raw); err != nil {
			return domain.NewFieldError("manager", domain.ErrInvalidID, string(req.Manager))
		}
		id, err := service.ParseID("manager", raw)
		if err != nil {
			return err
		}
		update.ManagerID = &id
	}

	dept, err := h.service.Update(c.UserContext(), actorFromContext(c), c.Params("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentResponse(dept, nil)})
}

// Delete DELETE /api/departments/:id.
func (h *DepartmentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), actorFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func normalizeStatus(raw string) domain.DepartmentStatus {
	return domain.DepartmentStatus(strings.ToLower(strings.TrimSpace(raw)))
}

func actorFromContext(c *fiber.Ctx) *events.Actor {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil
	}
	return &events.Actor{SubjectID: principal.SubjectID, Role: string(principal.Role)}
}
