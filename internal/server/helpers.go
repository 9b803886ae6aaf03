package server

import (
	"log/slog"
	"os"

	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the JSON body into dest or reports a ValidationFailure.
func parseBody(c *fiber.Ctx, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	return nil
}

// respondError writes err with its mapped status. Server-side failures are
// logged here since their cause is hidden from the client.
func respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError && status != fiber.StatusServiceUnavailable {
		slog.ErrorContext(c.UserContext(), "request failed", "path", c.Path(), "err", err)
	}
	return models.RespondWithError(c, status, err)
}

func detail(message string) fiber.Map {
	return fiber.Map{"detail": message}
}

var hostname, _ = os.Hostname()

// Banner handles GET /
func (s *Server) Banner(c *fiber.Ctx) error {
	containerID := os.Getenv("HOSTNAME")
	if containerID == "" {
		containerID = "unknown"
	}
	return c.JSON(fiber.Map{
		"message":      "Hello from " + DisplayName(s.config.Service) + "!",
		"instance":     hostname,
		"container_id": containerID,
	})
}

// HealthCheck handles GET /health. It always answers 200; the body says
// whether the service and its dependencies are usable.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(s.health.Check(c.UserContext()))
}
