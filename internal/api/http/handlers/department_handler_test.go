package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AadilJabar19/ERP-sub002/internal/domain"
	"github.com/AadilJabar19/ERP-sub002/internal/events"
	"github.com/AadilJabar19/ERP-sub002/internal/service"
	apperrors "github.com/AadilJabar19/ERP-sub002/pkg/util/errorutil"
)

type mockDepartmentService struct {
	mock.Mock
}

func (m *mockDepartmentService) Create(ctx context.Context, actor *events.Actor, dept *domain.Department) (*domain.Department, error) {
	args := m.Called(ctx, actor, dept)
	out, _ := args.Get(0).(*domain.Department)
	return out, args.Error(1)
}

func (m *mockDepartmentService) Get(ctx context.Context, id string) (*service.DepartmentView, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*service.DepartmentView)
	return out, args.Error(1)
}

func (m *mockDepartmentService) List(ctx context.Context, filter domain.DepartmentFilter) ([]domain.Department, int64, error) {
	args := m.Called(ctx, filter)
	out, _ := args.Get(0).([]domain.Department)
	return out, args.Get(1).(int64), args.Error(2)
}

func (m *mockDepartmentService) Update(ctx context.Context, actor *events.Actor, id string, update domain.DepartmentUpdate) (*domain.Department, error) {
	args := m.Called(ctx, actor, id, update)
	out, _ := args.Get(0).(*domain.Department)
	return out, args.Error(1)
}

func (m *mockDepartmentService) Delete(ctx context.Context, actor *events.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func newDepartmentsApp(svc DepartmentService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
				"code": de.Code, "message": de.Message, "details": de.Details,
			}})
		},
	})
	h := NewDepartmentsHandler(svc)
	app.Get("/departments", h.List)
	app.Get("/departments/:id", h.Get)
	app.Post("/departments", h.Create)
	app.Patch("/departments/:id", h.Update)
	app.Delete("/departments/:id", h.Delete)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestCreateDepartment(t *testing.T) {
	svc := new(mockDepartmentService)
	managerID := primitive.NewObjectID()
	svc.On("Create", mock.Anything, (*events.Actor)(nil), mock.MatchedBy(func(d *domain.Department) bool {
		return d.Name == "Engineering" && d.Code == "ENG" && d.Budget == 1200 &&
			d.ManagerID != nil && *d.ManagerID == managerID && d.Status == domain.DepartmentStatusInactive
	})).Return(&domain.Department{ID: primitive.NewObjectID(), Name: "Engineering", Code: "ENG", ManagerID: &managerID}, nil)

	status, body := call(t, newDepartmentsApp(svc), http.MethodPost, "/departments",
		`{"name":"Engineering","code":"ENG","budget":1200,"status":"Inactive","manager":"`+managerID.Hex()+`"}`)

	require.Equal(t, http.StatusCreated, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Engineering", data["name"])
	assert.Equal(t, managerID.Hex(), data["managerId"])
	svc.AssertExpectations(t)
}

func TestCreateDepartmentInvalidManager(t *testing.T) {
	svc := new(mockDepartmentService)

	status, body := call(t, newDepartmentsApp(svc), http.MethodPost, "/departments",
		`{"name":"Engineering","code":"ENG","manager":"nope"}`)

	assert.Equal(t, http.StatusBadRequest, status)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
	fields := errBody["details"].(map[string]any)["fields"].(map[string]any)
	assert.Equal(t, domain.ErrInvalidID.Error(), fields["manager"])
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateDepartmentDuplicate(t *testing.T) {
	svc := new(mockDepartmentService)
	svc.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.NewFieldError("code", domain.ErrDuplicate, "ENG"))

	status, body := call(t, newDepartmentsApp(svc), http.MethodPost, "/departments", `{"name":"Platform","code":"ENG"}`)

	assert.Equal(t, http.StatusConflict, status)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "CONFLICT", errBody["code"])
	assert.Equal(t, "must be unique", errBody["details"].(map[string]any)["fields"].(map[string]any)["code"])
}

func TestCreateDepartmentMalformedBody(t *testing.T) {
	status, body := call(t, newDepartmentsApp(new(mockDepartmentService)), http.MethodPost, "/departments", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])
}

func TestListDepartments(t *testing.T) {
	svc := new(mockDepartmentService)
	active := domain.DepartmentStatusActive
	svc.On("List", mock.Anything, domain.DepartmentFilter{Status: &active, Search: "eng", Limit: 5, Offset: 10}).
		Return([]domain.Department{{ID: primitive.NewObjectID(), Name: "Engineering", Code: "ENG"}}, int64(11), nil)

	status, body := call(t, newDepartmentsApp(svc), http.MethodGet, "/departments?status=active&search=eng&limit=5&offset=10", "")

	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)
	assert.Equal(t, map[string]any{"total": 11.0, "limit": 5.0, "offset": 10.0}, body["meta"])
}

func TestListDepartmentsDefaultsAndEmpty(t *testing.T) {
	svc := new(mockDepartmentService)
	svc.On("List", mock.Anything, domain.DepartmentFilter{Limit: domain.DefaultPageSize}).
		Return([]domain.Department{}, int64(0), nil)

	status, body := call(t, newDepartmentsApp(svc), http.MethodGet, "/departments", "")

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{}, body["data"])
}

func TestListDepartmentsBadStatus(t *testing.T) {
	status, body := call(t, newDepartmentsApp(new(mockDepartmentService)), http.MethodGet, "/departments?status=archived", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])
}

func TestGetDepartmentWithManager(t *testing.T) {
	svc := new(mockDepartmentService)
	id := primitive.NewObjectID()
	managerID := primitive.NewObjectID()
	svc.On("Get", mock.Anything, id.Hex()).Return(&service.DepartmentView{
		Department: &domain.Department{ID: id, Name: "Finance", Code: "FIN", ManagerID: &managerID},
		Manager:    &domain.Employee{ID: managerID, FirstName: "Grace", LastName: "Hopper", Position: "CFO"},
	}, nil)

	status, body := call(t, newDepartmentsApp(svc), http.MethodGet, "/departments/"+id.Hex(), "")

	require.Equal(t, http.StatusOK, status)
	manager := body["data"].(map[string]any)["manager"].(map[string]any)
	assert.Equal(t, "Grace Hopper", manager["name"])
	assert.Equal(t, "CFO", manager["position"])
}

func TestGetDepartmentNotFound(t *testing.T) {
	svc := new(mockDepartmentService)
	svc.On("Get", mock.Anything, "abc").Return(nil, domain.ErrDepartmentNotFound)

	status, body := call(t, newDepartmentsApp(svc), http.MethodGet, "/departments/abc", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]any)["code"])
}

func TestUpdateDepartmentClearsManager(t *testing.T) {
	svc := new(mockDepartmentService)
	id := primitive.NewObjectID()
	svc.On("Update", mock.Anything, mock.Anything, id.Hex(), mock.MatchedBy(func(u domain.DepartmentUpdate) bool {
		return u.ClearManager && u.ManagerID == nil && u.Budget != nil && *u.Budget == 0
	})).Return(&domain.Department{ID: id, Name: "Finance", Code: "FIN"}, nil)

	status, body := call(t, newDepartmentsApp(svc), http.MethodPatch, "/departments/"+id.Hex(), `{"manager":null,"budget":0}`)

	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["data"].(map[string]any)["managerId"])
	svc.AssertExpectations(t)
}

func TestUpdateDepartmentSetsManagerAndStatus(t *testing.T) {
	svc := new(mockDepartmentService)
	id := primitive.NewObjectID()
	managerID := primitive.NewObjectID()
	svc.On("Update", mock.Anything, mock.Anything, id.Hex(), mock.MatchedBy(func(u domain.DepartmentUpdate) bool {
		return !u.ClearManager && u.ManagerID != nil && *u.ManagerID == managerID &&
			u.Status != nil && *u.Status == domain.DepartmentStatusInactive && u.Name == nil
	})).Return(&domain.Department{ID: id, Name: "Finance", Code: "FIN", ManagerID: &managerID}, nil)

	status, _ := call(t, newDepartmentsApp(svc), http.MethodPatch, "/departments/"+id.Hex(),
		`{"manager":"`+managerID.Hex()+`","status":"inactive"}`)

	assert.Equal(t, http.StatusOK, status)
	svc.AssertExpectations(t)
}

func TestUpdateDepartmentManagerWrongType(t *testing.T) {
	status, body := call(t, newDepartmentsApp(new(mockDepartmentService)), http.MethodPatch,
		"/departments/"+primitive.NewObjectID().Hex(), `{"manager":42}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])
}

func TestDeleteDepartment(t *testing.T) {
	svc := new(mockDepartmentService)
	id := primitive.NewObjectID().Hex()
	svc.On("Delete", mock.Anything, (*events.Actor)(nil), id).Return(nil)

	status, body := call(t, newDepartmentsApp(svc), http.MethodDelete, "/departments/"+id, "")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Nil(t, body)
}

func TestDeleteDepartmentInternalError(t *testing.T) {
	svc := new(mockDepartmentService)
	svc.On("Delete", mock.Anything, mock.Anything, "x").Return(errors.New("socket closed"))

	status, body := call(t, newDepartmentsApp(svc), http.MethodDelete, "/departments/x", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body["error"].(map[string]any)["message"])
}
