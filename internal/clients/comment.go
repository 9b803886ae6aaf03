package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CommentClient calls the comment service.
type CommentClient struct {
	caller
}

// NewCommentClient returns a client for the comment service rooted at base.
func NewCommentClient(base string, timeout time.Duration) *CommentClient {
	return &CommentClient{caller: newCaller("comment-service", base, timeout)}
}

// ListByPost returns every comment attached to postID.
func (c *CommentClient) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	status, body, err := c.do(ctx, "list_by_post", fiber.Get(c.url("posts", postID, "comments")))
	if err != nil {
		return nil, err
	}
	if status != fiber.StatusOK {
		return nil, fmt.Errorf("list comments of post %s: %w", postID, unexpected(status))
	}
	var comments []models.Comment
	if err := json.Unmarshal(body, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

// Delete removes commentID acting as userID.
func (c *CommentClient) Delete(ctx context.Context, userID, commentID string) error {
	status, _, err := c.do(ctx, "delete", fiber.Delete(c.url("comments", "delete", userID, commentID)))
	if err != nil {
		return err
	}
	if status != fiber.StatusOK && status != fiber.StatusNoContent {
		return fmt.Errorf("delete comment %s: %w", commentID, unexpected(status))
	}
	return nil
}
