// Package placeholder serves API modules whose real handlers do not exist yet.
//
// A placeholder answers every path under its mount point. Reads get a 200 with an
// empty result list, writes get a 501. It never touches storage and never requires
// authentication.
package placeholder

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AadilJabar19/ERP-sub002/internal/api/dto"
	"github.com/AadilJabar19/ERP-sub002/internal/observability"
)

// Status tokens carried in placeholder bodies.
const (
	StatusComingSoon     = "coming_soon"
	StatusNotImplemented = "not_implemented"
)

type options struct {
	metrics *observability.Metrics
}

// Option customizes a placeholder router.
type Option func(*options)

// WithMetrics counts answered requests per module and status token.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// Message is the human readable text returned for module.
func Message(module string) string {
	return module + " module is not fully configured yet"
}

// New returns a fiber app that answers every path and method for module.
// Mount it after the real routes, e.g. app.Mount("/api/payroll", placeholder.New("Payroll")).
// Routes are registered rather than used as middleware so the mount point matches
// whole path segments only: /api/payrollx is not served by the payroll placeholder.
func New(module string, opts ...Option) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	h := Handler(module, opts...)
	app.All("/", h)
	app.All("/*", h)
	return app
}

// Handler is the catch-all handler behind New. It only distinguishes read from write
// methods; the path is ignored.
func Handler(module string, opts ...Option) fiber.Handler {
	if strings.TrimSpace(module) == "" {
		panic("placeholder: module name is required")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	message := Message(module)

	return func(c *fiber.Ctx) error {
		if isRead(c.Method()) {
			o.metrics.RecordPlaceholder(module, StatusComingSoon)
			return c.Status(fiber.StatusOK).JSON(dto.PlaceholderResponse{
				Message: message,
				Status:  StatusComingSoon,
				Data:    []any{},
			})
		}
		o.metrics.RecordPlaceholder(module, StatusNotImplemented)
		return c.Status(fiber.StatusNotImplemented).JSON(dto.PlaceholderNotImplementedResponse{
			Message: message,
			Status:  StatusNotImplemented,
		})
	}
}

// MountAll mounts a placeholder for each module under prefix/<slug>.
// It returns the mount paths in module order.
func MountAll(app *fiber.App, prefix string, modules []string, opts ...Option) []string {
	paths := make([]string, 0, len(modules))
	for _, module := range modules {
		path := strings.TrimRight(prefix, "/") + "/" + Slug(module)
		app.Mount(path, New(module, opts...))
		paths = append(paths, path)
	}
	return paths
}

// Slug turns a module name into its URL segment: "Fixed Assets" becomes "fixed-assets".
func Slug(module string) string {
	return strings.Join(strings.Fields(strings.ToLower(module)), "-")
}

func isRead(method string) bool {
	return method == fiber.MethodGet || method == fiber.MethodHead
}
