package server

import (
	"agora/internal/repository"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) trendingPosts(metric repository.RankMetric) fiber.Handler {
	return func(c *fiber.Ctx) error {
		posts, err := s.trendingService.TopPosts(c.UserContext(), metric)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(posts)
	}
}

func (s *Server) trendingComments(metric repository.RankMetric) fiber.Handler {
	return func(c *fiber.Ctx) error {
		comments, err := s.trendingService.TopComments(c.UserContext(), metric)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(comments)
	}
}

// TrendingPostsByScore handles GET /trending/posts
func (s *Server) TrendingPostsByScore(c *fiber.Ctx) error {
	return s.trendingPosts(repository.RankByScore)(c)
}

// TrendingPostsByLikes handles GET /trending/posts/likes
func (s *Server) TrendingPostsByLikes(c *fiber.Ctx) error {
	return s.trendingPosts(repository.RankByLikes)(c)
}

// TrendingPostsByDislikes handles GET /trending/posts/dislikes
func (s *Server) TrendingPostsByDislikes(c *fiber.Ctx) error {
	return s.trendingPosts(repository.RankByDislikes)(c)
}

// TrendingCommentsByScore handles GET /trending/comments
func (s *Server) TrendingCommentsByScore(c *fiber.Ctx) error {
	return s.trendingComments(repository.RankByScore)(c)
}

// TrendingCommentsByLikes handles GET /trending/comments/likes
func (s *Server) TrendingCommentsByLikes(c *fiber.Ctx) error {
	return s.trendingComments(repository.RankByLikes)(c)
}

// TrendingCommentsByDislikes handles GET /trending/comments/dislikes
func (s *Server) TrendingCommentsByDislikes(c *fiber.Ctx) error {
	return s.trendingComments(repository.RankByDislikes)(c)
}

// TrendingUsersByActivity handles GET /trending/users/activity
func (s *Server) TrendingUsersByActivity(c *fiber.Ctx) error {
	users, err := s.trendingService.TopUsersByActivity(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// TrendingUsersByFollowers handles GET /trending/users/followers
func (s *Server) TrendingUsersByFollowers(c *fiber.Ctx) error {
	users, err := s.trendingService.TopUsersByFollowers(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// TrendingTopCommenters handles GET /trending/users/commenters
func (s *Server) TrendingTopCommenters(c *fiber.Ctx) error {
	commenters, err := s.trendingService.TopCommenters(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(commenters)
}
