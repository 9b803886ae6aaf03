package service

import (
	"context"
	"log/slog"

	"agora/internal/models"
	"agora/internal/repository"
	"agora/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
	users    UserGateway
	cascade  *Cascade
}

type EditPostInput struct {
	UserID string
	PostID string
	Patch  models.EditPostRequest
}

type DeletePostInput struct {
	UserID string
	PostID string
}

// DeletePostResult carries the cascade report of a successful delete. The
// report is informational; the delete itself has already succeeded.
type DeletePostResult struct {
	Cascade CascadeReport
}

func NewPostService(postRepo repository.PostRepository, users UserGateway, cascade *Cascade) *PostService {
	return &PostService{
		postRepo: postRepo,
		users:    users,
		cascade:  cascade,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in models.CreatePostRequest) (*models.Post, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := requireUser(ctx, s.users, in.UserID); err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:   in.UserID,
		Username: in.Username,
		Title:    in.Title,
		Category: in.Category,
		Content:  in.Content,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "post created", "post_id", post.ID, "user_id", post.UserID)

	adjustCounter(ctx, s.users, post.UserID, models.CounterPosts, 1)
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

func (s *PostService) GetPostSummary(ctx context.Context, postID string) (models.PostSummary, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return models.PostSummary{}, err
	}
	return post.Summary(), nil
}

// ListUserPosts returns the posts of an existing user.
func (s *PostService) ListUserPosts(ctx context.Context, userID string) ([]models.Post, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	return s.postRepo.ListByUser(ctx, userID)
}

func (s *PostService) EditPost(ctx context.Context, in EditPostInput) (*models.Post, error) {
	if err := validation.Struct(in.Patch); err != nil {
		return nil, err
	}
	if _, err := requireUser(ctx, s.users, in.UserID); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(ctx, "post", post.ID, post.UserID, in.UserID); err != nil {
		return nil, err
	}
	return s.postRepo.Edit(ctx, in.PostID, in.Patch.Patch())
}

func (s *PostService) LikePost(ctx context.Context, postID string) (*models.Post, error) {
	return s.postRepo.IncrementLikes(ctx, postID)
}

func (s *PostService) DislikePost(ctx context.Context, postID string) (*models.Post, error) {
	return s.postRepo.IncrementDislikes(ctx, postID)
}

// DeletePost removes the post and then cascades into its comments. Once the
// post row is gone the call succeeds whatever the cascade reports.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) (DeletePostResult, error) {
	if _, err := requireUser(ctx, s.users, in.UserID); err != nil {
		return DeletePostResult{}, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return DeletePostResult{}, err
	}
	if err := requireOwner(ctx, "post", post.ID, post.UserID, in.UserID); err != nil {
		return DeletePostResult{}, err
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return DeletePostResult{}, err
	}
	slog.InfoContext(ctx, "post deleted", "post_id", in.PostID, "user_id", in.UserID)

	// The client may hang up; the cleanup keeps going.
	detached := context.WithoutCancel(ctx)
	adjustCounter(detached, s.users, post.UserID, models.CounterPosts, -1)

	var result DeletePostResult
	if s.cascade != nil {
		result.Cascade = s.cascade.Run(detached, in.PostID)
	}
	return result, nil
}
