package server

import (
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const refreshCookieName = "refresh_token"

// Login handles POST /auth/login. The body must be JSON; it is checked for
// shape only and then forwarded to the user service unchanged.
func (s *Server) Login(c *fiber.Ctx) error {
	if !c.Is("json") {
		return respondError(c, models.NewValidationError("Content-Type must be application/json"))
	}
	var creds models.Credentials
	if err := parseBody(c, &creds); err != nil {
		return respondError(c, err)
	}
	if err := validation.Struct(creds); err != nil {
		return respondError(c, err)
	}

	body := append([]byte(nil), c.Body()...)
	session, err := s.authService.Login(c.UserContext(), body)
	if err != nil {
		return respondError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    session.RefreshToken,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(session.Token)
}

// Me handles GET /auth/me
func (s *Server) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user_id": middleware.UserID(c)})
}
