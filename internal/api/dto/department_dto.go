package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/AadilJabar19/ERP-sub002/internal/domain"
)

// CreateDepartmentRequest payload.
type CreateDepartmentRequest struct {
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Manager     *string  `json:"manager"`
	Budget      *float64 `json:"budget"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Status      string   `json:"status"`
}

// UpdateDepartmentRequest is a partial update. An explicit null manager clears it.
type UpdateDepartmentRequest struct {
	Name        *string         `json:"name"`
	Code        *string         `json:"code"`
	Manager     json.RawMessage `json:"manager"`
	Budget      *float64        `json:"budget"`
	Description *string         `json:"description"`
	Location    *string         `json:"location"`
	Status      *string         `json:"status"`
}

// ManagerPresent reports whether the payload carried a manager key.
func (r UpdateDepartmentRequest) ManagerPresent() bool {
	return len(r.Manager) > 0
}

// ManagerCleared reports whether the payload set manager to null.
func (r UpdateDepartmentRequest) ManagerCleared() bool {
	return bytes.Equal(bytes.TrimSpace(r.Manager), []byte("null"))
}

// DepartmentListQuery captures list filters.
type DepartmentListQuery struct {
	Status string `query:"status"`
	Search string `query:"search"`
	Limit  int64  `query:"limit"`
	Offset int64  `query:"offset"`
}

// ManagerSummary is the resolved manager of a department.
type ManagerSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Position string `json:"position,omitempty"`
}

// DepartmentResponse represents a department.
type DepartmentResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Code        string                  `json:"code"`
	ManagerID   *string                 `json:"managerId"`
	Manager     *ManagerSummary         `json:"manager,omitempty"`
	Budget      float64                 `json:"budget"`
	Description string                  `json:"description"`
	Location    string                  `json:"location"`
	Status      domain.DepartmentStatus `json:"status"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// ListMeta describes a page of results.
type ListMeta struct {
	Total  int64 `json:"total"`
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

// NewDepartmentResponse renders dept. manager may be nil.
func NewDepartmentResponse(dept *domain.Department, manager *domain.Employee) DepartmentResponse {
	resp := DepartmentResponse{
		ID:          dept.ID.Hex(),
		Name:        dept.Name,
		Code:        dept.Code,
		Budget:      dept.Budget,
		Description: dept.Description,
		Location:    dept.Location,
		Status:      dept.Status,
		CreatedAt:   dept.CreatedAt,
		UpdatedAt:   dept.UpdatedAt,
	}
	if dept.ManagerID != nil {
		id := dept.ManagerID.Hex()
		resp.ManagerID = &id
	}
	if manager != nil {
		resp.Manager = &ManagerSummary{
			ID:       manager.ID.Hex(),
			Name:     manager.FullName(),
			Email:    manager.Email,
			Position: manager.Position,
		}
	}
	return resp
}
