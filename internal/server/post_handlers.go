package server

import (
	"agora/internal/models"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req models.CreatePostRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	post, err := s.postService.CreatePost(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// GetPostSummary handles GET /posts/:id/summary
func (s *Server) GetPostSummary(c *fiber.Ctx) error {
	summary, err := s.postService.GetPostSummary(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GetUserPosts handles GET /users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListUserPosts(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// EditPost handles PUT /posts/:userId/:id
func (s *Server) EditPost(c *fiber.Ctx) error {
	var req models.EditPostRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	post, err := s.postService.EditPost(c.UserContext(), service.EditPostInput{
		UserID: c.Params("userId"),
		PostID: c.Params("id"),
		Patch:  req,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// LikePost handles PUT /posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	post, err := s.postService.LikePost(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DislikePost handles PUT /posts/:id/dislike
func (s *Server) DislikePost(c *fiber.Ctx) error {
	post, err := s.postService.DislikePost(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /posts/delete/:userId/:id. The cascade outcome
// is not part of the response.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	_, err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: c.Params("userId"),
		PostID: c.Params("id"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail("Post deleted successfully"))
}
