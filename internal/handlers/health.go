package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheckFunc checks one dependency.
type HealthCheckFunc func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]HealthCheckFunc
	timeout time.Duration
}

func NewHealthHandler(checks map[string]HealthCheckFunc) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// HealthCheck reports each dependency. Any failing dependency turns the
// response into a 503.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	status := fiber.StatusOK
	deps := fiber.Map{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = "unavailable"
			status = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "connected"
	}

	state := "ok"
	if status != fiber.StatusOK {
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   state,
		"services": deps,
	})
}
