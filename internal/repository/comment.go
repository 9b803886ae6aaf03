package repository

import (
	"context"

	"agora/internal/models"
	"agora/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	Edit(ctx context.Context, id string, patch models.CommentPatch) (*models.Comment, error)
	IncrementLikes(ctx context.Context, id string) (*models.Comment, error)
	IncrementDislikes(ctx context.Context, id string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
	Top(ctx context.Context, metric RankMetric, limit int) ([]models.Comment, error)
	TopCommenters(ctx context.Context, limit int) ([]models.TopCommenter, error)
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.Likes, comment.Dislikes = 0, 0
	comment.EditedAt = now()

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.log.Fail(ctx, "create", err)
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Comment already exists")
		}
		return models.NewInternalError(err)
	}
	r.log.Write(ctx, "create", "comment_id", comment.ID, "post_id", comment.PostID)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("comment_id = ?", id).First(&comment).Error; err != nil {
		return nil, notFoundOr(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) ListByUser(ctx context.Context, userID string) ([]models.Comment, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	return r.list(ctx, "post_id = ?", postID)
}

func (r *commentRepository) list(ctx context.Context, where string, arg string) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Where(where, arg).
		Order("edited_at DESC").
		Order("comment_id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Edit(ctx context.Context, id string, patch models.CommentPatch) (*models.Comment, error) {
	cols := patch.Columns()
	cols["edited_at"] = now()

	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("comment_id = ?", id).Updates(cols)
	if res.Error != nil {
		r.log.Fail(ctx, "update", res.Error)
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Comment", id)
	}
	r.log.Write(ctx, "update", "comment_id", id)
	return r.GetByID(ctx, id)
}

func (r *commentRepository) IncrementLikes(ctx context.Context, id string) (*models.Comment, error) {
	return r.increment(ctx, id, "likes")
}

func (r *commentRepository) IncrementDislikes(ctx context.Context, id string) (*models.Comment, error) {
	return r.increment(ctx, id, "dislikes")
}

func (r *commentRepository) increment(ctx context.Context, id, column string) (*models.Comment, error) {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("comment_id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		r.log.Fail(ctx, "increment", res.Error)
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Comment", id)
	}
	return r.GetByID(ctx, id)
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("comment_id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		r.log.Fail(ctx, "delete", res.Error)
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	r.log.Write(ctx, "delete", "comment_id", id)
	return nil
}

func (r *commentRepository) Top(ctx context.Context, metric RankMetric, limit int) ([]models.Comment, error) {
	order, err := metric.orderExpr()
	if err != nil {
		return nil, err
	}
	comments := []models.Comment{}
	err = r.db.WithContext(ctx).
		Order(order).
		Order("comment_id ASC").
		Limit(clampLimit(limit)).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// TopCommenters ranks authors by how many comments they have written.
func (r *commentRepository) TopCommenters(ctx context.Context, limit int) ([]models.TopCommenter, error) {
	out := []models.TopCommenter{}
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("user_id, COUNT(*) AS comment_count").
		Group("user_id").
		Order("comment_count DESC").
		Order("user_id ASC").
		Limit(clampLimit(limit)).
		Scan(&out).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}
