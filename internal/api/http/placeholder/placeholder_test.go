package placeholder

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AadilJabar19/ERP-sub002/internal/observability"
)

func do(t *testing.T, app *fiber.App, method, path string) (int, string) {
	t.Helper()
	var body io.Reader
	if method != http.MethodGet && method != http.MethodHead {
		body = strings.NewReader(`{"name":"ignored"}`)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestPayrollScenario(t *testing.T) {
	app := New("Payroll")

	status, body := do(t, app, http.MethodGet, "/anything")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Payroll module is not fully configured yet","status":"coming_soon","data":[]}`, body)

	status, body = do(t, app, http.MethodPost, "/anything")
	assert.Equal(t, http.StatusNotImplemented, status)
	assert.JSONEq(t, `{"message":"Payroll module is not fully configured yet","status":"not_implemented"}`, body)
}

func TestReadsAnyPath(t *testing.T) {
	modules := []string{"Inventory", "Fixed Assets", "CRM"}
	paths := []string{"/", "/items", "/items/42/history", "/reports?year=2024"}

	for _, module := range modules {
		app := New(module)
		for _, path := range paths {
			status, body := do(t, app, http.MethodGet, path)
			assert.Equal(t, http.StatusOK, status, "%s %s", module, path)
			assert.JSONEq(t, `{"message":"`+module+` module is not fully configured yet","status":"coming_soon","data":[]}`, body)
		}
	}
}

func TestWritesAreNotImplemented(t *testing.T) {
	app := New("Sales")
	want := `{"message":"Sales module is not fully configured yet","status":"not_implemented"}`

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		for _, path := range []string{"/", "/orders", "/orders/7"} {
			status, body := do(t, app, method, path)
			assert.Equal(t, http.StatusNotImplemented, status, "%s %s", method, path)
			assert.JSONEq(t, want, body)
		}
	}
}

func TestHeadIsRead(t *testing.T) {
	status, _ := do(t, New("Leave"), http.MethodHead, "/requests")
	assert.Equal(t, http.StatusOK, status)
}

func TestMountedAfterRealRoutes(t *testing.T) {
	app := fiber.New()
	app.Get("/api/departments", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": []string{"real"}})
	})
	paths := MountAll(app, "/api/", []string{"Payroll", "Fixed Assets"})
	assert.Equal(t, []string{"/api/payroll", "/api/fixed-assets"}, paths)

	status, body := do(t, app, http.MethodGet, "/api/departments")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"data":["real"]}`, body)

	status, body = do(t, app, http.MethodGet, "/api/payroll/runs/2024-05")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Payroll module is not fully configured yet","status":"coming_soon","data":[]}`, body)

	status, body = do(t, app, http.MethodDelete, "/api/fixed-assets/9")
	assert.Equal(t, http.StatusNotImplemented, status)
	assert.JSONEq(t, `{"message":"Fixed Assets module is not fully configured yet","status":"not_implemented"}`, body)
}

func TestMountMatchesWholeSegments(t *testing.T) {
	app := fiber.New()
	MountAll(app, "/api", []string{"Payroll"})

	for _, path := range []string{"/api/payroll", "/api/payroll/", "/api/payroll/runs"} {
		status, _ := do(t, app, http.MethodGet, path)
		assert.Equal(t, http.StatusOK, status, path)
	}
	for _, path := range []string{"/api/payrollx", "/api/payrollx/runs", "/api/payroll-archive/runs"} {
		status, _ := do(t, app, http.MethodGet, path)
		assert.Equal(t, http.StatusNotFound, status, path)
	}
	status, _ := do(t, app, http.MethodPost, "/api/payrollx/runs")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWithMetricsCountsHits(t *testing.T) {
	m := observability.NewMetrics()
	app := New("Finance", WithMetrics(m))

	do(t, app, http.MethodGet, "/ledger")
	do(t, app, http.MethodGet, "/ledger")
	do(t, app, http.MethodPost, "/ledger")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PlaceholderCounter("Finance", StatusNotImplemented)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PlaceholderCounter("Finance", StatusComingSoon)))
}

func TestEmptyModulePanics(t *testing.T) {
	assert.Panics(t, func() { New("  ") })
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "payroll", Slug("Payroll"))
	assert.Equal(t, "fixed-assets", Slug("  Fixed   Assets "))
}
