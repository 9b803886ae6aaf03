// Package service holds the business logic shared by the agora HTTP servers.
package service

import (
	"context"
	"log/slog"

	"agora/internal/clients"
	"agora/internal/models"
)

// UserDirectory answers existence checks against the user service.
type UserDirectory interface {
	Lookup(ctx context.Context, userID string) clients.UserLookup
}

// CounterSink receives activity counter adjustments for a user.
type CounterSink interface {
	AdjustCounter(ctx context.Context, userID string, counter models.UserCounter, delta int) error
}

// UserGateway is the part of the user service the post and comment services call.
type UserGateway interface {
	UserDirectory
	CounterSink
}

// PostDirectory answers existence checks against the post service.
type PostDirectory interface {
	Lookup(ctx context.Context, postID string) clients.PostLookup
}

// requireUser verifies userID exists before any local write. An unreachable
// user service is never reported as a missing user.
func requireUser(ctx context.Context, users UserDirectory, userID string) (*models.User, error) {
	res := users.Lookup(ctx, userID)
	switch res.Status {
	case clients.LookupFound:
		return res.User, nil
	case clients.LookupNotFound:
		slog.WarnContext(ctx, "ownership check: user does not exist", "user_id", userID)
		return nil, models.NewNotFoundError("User", userID)
	default:
		slog.WarnContext(ctx, "ownership check: user service unavailable", "user_id", userID, "err", res.Err)
		return nil, models.NewDependencyUnavailableError("User service", res.Err)
	}
}

func requirePost(ctx context.Context, posts PostDirectory, postID string) (*models.Post, error) {
	res := posts.Lookup(ctx, postID)
	switch res.Status {
	case clients.LookupFound:
		return res.Post, nil
	case clients.LookupNotFound:
		return nil, models.NewNotFoundError("Post", postID)
	default:
		return nil, models.NewDependencyUnavailableError("Post service", res.Err)
	}
}

// requireOwner is the local authorization check that follows existence.
func requireOwner(ctx context.Context, resource, id, ownerID, callerID string) error {
	if ownerID == callerID {
		return nil
	}
	slog.WarnContext(ctx, "ownership check: caller does not own resource",
		"resource", resource, "id", id, "user_id", callerID)
	return models.NewForbiddenError("Not authorized to modify this " + resource)
}

// adjustCounter is best effort: the mutation it follows has already committed.
func adjustCounter(ctx context.Context, sink CounterSink, userID string, counter models.UserCounter, delta int) {
	if sink == nil {
		return
	}
	if err := sink.AdjustCounter(ctx, userID, counter, delta); err != nil {
		slog.WarnContext(ctx, "failed to adjust user counter",
			"user_id", userID, "counter", string(counter), "delta", delta, "err", err)
	}
}
