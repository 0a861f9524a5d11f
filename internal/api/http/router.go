package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AadilJabar19/ERP-sub002/internal/api/http/handlers"
	"github.com/AadilJabar19/ERP-sub002/internal/api/http/placeholder"
	"github.com/AadilJabar19/ERP-sub002/internal/auth"
	"github.com/AadilJabar19/ERP-sub002/internal/observability"
)

// APIPrefix is where every module router is mounted.
const APIPrefix = "/api"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Departments *handlers.DepartmentsHandler
	// AuthMiddleware is nil when authentication is disabled.
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	Placeholders   []string
}

// RegisterRoutes wires HTTP routes. Placeholder modules are mounted last so they
// never shadow a real route.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	api := app.Group(APIPrefix)

	departments := api.Group("/departments")
	readGuard := func(c *fiber.Ctx) error { return c.Next() }
	writeGuard := readGuard
	if cfg.AuthMiddleware != nil {
		departments.Use(cfg.AuthMiddleware.Handle)
		readGuard = auth.RequireAnyRole()
		writeGuard = auth.RequireRole(auth.RoleAdmin, auth.RoleManager)
	}
	departments.Get("/", readGuard, cfg.Departments.List)
	departments.Get("/:id", readGuard, cfg.Departments.Get)
	departments.Post("/", writeGuard, cfg.Departments.Create)
	departments.Patch("/:id", writeGuard, cfg.Departments.Update)
	departments.Delete("/:id", writeGuard, cfg.Departments.Delete)

	placeholder.MountAll(app, APIPrefix, cfg.Placeholders, placeholder.WithMetrics(cfg.Metrics))
}
