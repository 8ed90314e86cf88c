package httpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// HealthChecker is any component that can report its health.
type HealthChecker interface {
	Name() string
	Health(ctx context.Context) mono.HealthStatus
}

// Module serves liveness and readiness endpoints over HTTP.
type Module struct {
	addr   string
	checks []HealthChecker
	app    *fiber.App
	logger types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates an HTTP health module listening on addr.
func NewModule(addr string, logger types.Logger, checks ...HealthChecker) *Module {
	return &Module{
		addr:   addr,
		checks: checks,
		logger: logger,
	}
}

// Name returns the module name
func (m *Module) Name() string {
	return "http-server"
}

// Health performs a health check on the HTTP server module
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.app == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "HTTP server not initialized",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

// healthReport is the body of GET /health.
type healthReport struct {
	Healthy bool                         `json:"healthy"`
	Checks  map[string]mono.HealthStatus `json:"checks"`
}

// newApp builds the fiber app and its routes.
func (m *Module) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
	})

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "alive",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		report := m.check(c.UserContext())
		status := fiber.StatusOK
		if !report.Healthy {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(report)
	})

	return app
}

func (m *Module) check(ctx context.Context) healthReport {
	report := healthReport{
		Healthy: true,
		Checks:  make(map[string]mono.HealthStatus, len(m.checks)),
	}
	for _, c := range m.checks {
		status := c.Health(ctx)
		report.Checks[c.Name()] = status
		if !status.Healthy {
			report.Healthy = false
		}
	}
	return report
}

// Start initializes and starts the HTTP server
func (m *Module) Start(ctx context.Context) error {
	m.app = m.newApp()

	// Start server in a goroutine with error channel for startup failures
	errChan := make(chan error, 1)
	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("failed to start HTTP server: %w", err)
	case <-time.After(100 * time.Millisecond):
		m.logger.Info("HTTP server started", "addr", m.addr)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop gracefully shuts down the HTTP server
func (m *Module) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}

	m.logger.Info("Shutting down HTTP server")
	if err := m.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	m.logger.Info("HTTP server stopped gracefully")
	return nil
}
