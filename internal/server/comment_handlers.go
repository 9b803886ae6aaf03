package server

import (
	"agora/internal/models"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req models.CreateCommentRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	comment, err := s.commentService.CreateComment(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComment handles GET /comments/:id
func (s *Server) GetComment(c *fiber.Ctx) error {
	comment, err := s.commentService.GetComment(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// GetUserComments handles GET /users/:id/comments
func (s *Server) GetUserComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListUserComments(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// GetPostComments handles GET /posts/:id/comments
func (s *Server) GetPostComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListPostComments(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// EditComment handles PUT /comments/:userId/:id
func (s *Server) EditComment(c *fiber.Ctx) error {
	var req models.EditCommentRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	comment, err := s.commentService.EditComment(c.UserContext(), service.EditCommentInput{
		UserID:    c.Params("userId"),
		CommentID: c.Params("id"),
		Patch:     req,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// LikeComment handles PUT /comments/:id/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	comment, err := s.commentService.LikeComment(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// DislikeComment handles PUT /comments/:id/dislike
func (s *Server) DislikeComment(c *fiber.Ctx) error {
	comment, err := s.commentService.DislikeComment(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /comments/delete/:userId/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    c.Params("userId"),
		CommentID: c.Params("id"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail("Comment deleted successfully"))
}
