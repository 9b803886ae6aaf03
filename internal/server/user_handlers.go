package server

import (
	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateUser handles POST /users
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req models.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := s.userService.CreateUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser handles GET /users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles PUT /users/:id
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req models.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := s.userService.UpdateUser(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /users/:id
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	if err := s.userService.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FollowUser handles PUT /users/follow/:id
func (s *Server) FollowUser(c *fiber.Ctx) error {
	user, err := s.userService.Follow(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UnfollowUser handles PUT /users/unfollow/:id
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	user, err := s.userService.Unfollow(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// AdjustUserCounter handles PUT /users/:id/counters/:counter
func (s *Server) AdjustUserCounter(c *fiber.Ctx) error {
	var req models.CounterRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	counter := models.UserCounter(c.Params("counter"))
	user, err := s.userService.AdjustCounter(c.UserContext(), c.Params("id"), counter, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// VerifyCredentials handles POST /auth/verify
func (s *Server) VerifyCredentials(c *fiber.Ctx) error {
	var creds models.Credentials
	if err := parseBody(c, &creds); err != nil {
		return respondError(c, err)
	}
	verified, err := s.userService.VerifyCredentials(c.UserContext(), creds)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(verified)
}
