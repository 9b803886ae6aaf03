package repository

import (
	"context"

	"agora/internal/models"
	"agora/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]models.Post, error)
	Edit(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error)
	IncrementLikes(ctx context.Context, id string) (*models.Post, error)
	IncrementDislikes(ctx context.Context, id string) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	Top(ctx context.Context, metric RankMetric, limit int) ([]models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.Category == "" {
		post.Category = models.CategoryOther
	}
	post.Likes, post.Dislikes = 0, 0
	post.EditedAt = now()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		r.log.Fail(ctx, "create", err)
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Post already exists")
		}
		return models.NewInternalError(err)
	}
	r.log.Write(ctx, "create", "post_id", post.ID, "user_id", post.UserID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("post_id = ?", id).First(&post).Error; err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("edited_at DESC").
		Order("post_id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Edit(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	cols := patch.Columns()
	cols["edited_at"] = now()

	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("post_id = ?", id).Updates(cols)
	if res.Error != nil {
		r.log.Fail(ctx, "update", res.Error)
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Post", id)
	}
	r.log.Write(ctx, "update", "post_id", id, "fields", len(cols)-1)
	return r.GetByID(ctx, id)
}

func (r *postRepository) IncrementLikes(ctx context.Context, id string) (*models.Post, error) {
	return r.increment(ctx, id, "likes")
}

func (r *postRepository) IncrementDislikes(ctx context.Context, id string) (*models.Post, error) {
	return r.increment(ctx, id, "dislikes")
}

// increment bumps column in a single UPDATE so concurrent calls never lose a count.
func (r *postRepository) increment(ctx context.Context, id, column string) (*models.Post, error) {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("post_id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		r.log.Fail(ctx, "increment", res.Error)
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Post", id)
	}
	return r.GetByID(ctx, id)
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("post_id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		r.log.Fail(ctx, "delete", res.Error)
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	r.log.Write(ctx, "delete", "post_id", id)
	return nil
}

// Top returns at most limit posts ordered by metric, ties broken by id.
func (r *postRepository) Top(ctx context.Context, metric RankMetric, limit int) ([]models.Post, error) {
	order, err := metric.orderExpr()
	if err != nil {
		return nil, err
	}
	posts := []models.Post{}
	err = r.db.WithContext(ctx).
		Order(order).
		Order("post_id ASC").
		Limit(clampLimit(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}
