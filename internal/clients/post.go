package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// PostLookup is the result of PostClient.Lookup.
type PostLookup struct {
	Status LookupStatus
	Post   *models.Post
	Err    error
}

// PostClient calls the post service.
type PostClient struct {
	caller
}

// NewPostClient returns a client for the post service rooted at base.
func NewPostClient(base string, timeout time.Duration) *PostClient {
	return &PostClient{caller: newCaller("post-service", base, timeout)}
}

// Lookup checks whether postID exists.
func (c *PostClient) Lookup(ctx context.Context, postID string) PostLookup {
	status, body, err := c.do(ctx, "lookup", fiber.Get(c.url("posts", postID)))
	if err != nil {
		return PostLookup{Status: LookupUnavailable, Err: err}
	}
	switch status {
	case fiber.StatusOK:
		var post models.Post
		if err := json.Unmarshal(body, &post); err != nil {
			return PostLookup{Status: LookupUnavailable, Err: fmt.Errorf("decode post: %w", err)}
		}
		return PostLookup{Status: LookupFound, Post: &post}
	case fiber.StatusNotFound:
		return PostLookup{Status: LookupNotFound}
	default:
		return PostLookup{Status: LookupUnavailable, Err: unexpected(status)}
	}
}
