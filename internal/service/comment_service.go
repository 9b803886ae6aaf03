package service

import (
	"context"
	"log/slog"

	"agora/internal/models"
	"agora/internal/repository"
	"agora/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	users       UserGateway
	posts       PostDirectory
}

type EditCommentInput struct {
	UserID    string
	CommentID string
	Patch     models.EditCommentRequest
}

type DeleteCommentInput struct {
	UserID    string
	CommentID string
}

func NewCommentService(commentRepo repository.CommentRepository, users UserGateway, posts PostDirectory) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		users:       users,
		posts:       posts,
	}
}

// CreateComment checks the author and then the post before writing. The
// post reference is not checked again after this.
func (s *CommentService) CreateComment(ctx context.Context, in models.CreateCommentRequest) (*models.Comment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := requireUser(ctx, s.users, in.UserID); err != nil {
		return nil, err
	}
	if s.posts != nil {
		if _, err := requirePost(ctx, s.posts, in.PostID); err != nil {
			return nil, err
		}
	}

	comment := &models.Comment{
		UserID:   in.UserID,
		PostID:   in.PostID,
		Username: in.Username,
		Content:  in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "comment created", "comment_id", comment.ID, "post_id", comment.PostID, "user_id", comment.UserID)

	adjustCounter(ctx, s.users, comment.UserID, models.CounterComments, 1)
	return comment, nil
}

func (s *CommentService) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, commentID)
}

func (s *CommentService) ListUserComments(ctx context.Context, userID string) ([]models.Comment, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByUser(ctx, userID)
}

// ListPostComments reads local rows only; an unknown post yields an empty list.
func (s *CommentService) ListPostComments(ctx context.Context, postID string) ([]models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) EditComment(ctx context.Context, in EditCommentInput) (*models.Comment, error) {
	if err := validation.Struct(in.Patch); err != nil {
		return nil, err
	}
	if _, err := requireUser(ctx, s.users, in.UserID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(ctx, "comment", comment.ID, comment.UserID, in.UserID); err != nil {
		return nil, err
	}
	return s.commentRepo.Edit(ctx, in.CommentID, in.Patch.Patch())
}

func (s *CommentService) LikeComment(ctx context.Context, commentID string) (*models.Comment, error) {
	return s.commentRepo.IncrementLikes(ctx, commentID)
}

func (s *CommentService) DislikeComment(ctx context.Context, commentID string) (*models.Comment, error) {
	return s.commentRepo.IncrementDislikes(ctx, commentID)
}

// DeleteComment has no further cascade.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	if _, err := requireUser(ctx, s.users, in.UserID); err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if err := requireOwner(ctx, "comment", comment.ID, comment.UserID, in.UserID); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "comment deleted", "comment_id", in.CommentID, "post_id", comment.PostID, "user_id", in.UserID)

	adjustCounter(context.WithoutCancel(ctx), s.users, comment.UserID, models.CounterComments, -1)
	return nil
}
