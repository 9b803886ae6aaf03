package middleware

import (
	"strings"

	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LocalUserID is the fiber local holding the authenticated subject.
const LocalUserID = "userID"

// TokenParser validates a bearer token and returns its subject.
type TokenParser interface {
	ParseSubject(token string) (string, error)
}

// UserID returns the subject stored by AuthRequired, or "".
func UserID(c *fiber.Ctx) string {
	uid, _ := c.Locals(LocalUserID).(string)
	return uid
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: msg})
}

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(parser TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c, "Authorization header required")
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.Contains(token, " ") {
			return unauthorized(c, "Invalid authorization header format")
		}

		subject, err := parser.ParseSubject(token)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(LocalUserID, subject)
		return c.Next()
	}
}
